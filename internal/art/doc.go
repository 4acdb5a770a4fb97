// Package art converts source artwork into printable coloring-book line
// art.
//
// The pipeline is deterministic and never mutates its input: alpha is
// flattened onto white, content is optionally cropped to its bounding
// box, the image is aspect-fit resized, and (unless color output is
// requested) edges are extracted and cleaned into black contours on a
// white background suitable for hand-coloring.
//
// # Coordinate System
//
// All operations use the standard image convention: (0,0) at the
// top-left, X increasing rightward, Y increasing downward.
package art
