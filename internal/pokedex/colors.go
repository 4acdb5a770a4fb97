package pokedex

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// typePalette maps type names to their conventional badge colors.
var typePalette = map[string]string{
	"normal":   "#A8A878",
	"fighting": "#C03028",
	"flying":   "#A890F0",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"rock":     "#B8A038",
	"bug":      "#A8B820",
	"ghost":    "#705898",
	"steel":    "#B8B8D0",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"grass":    "#78C850",
	"electric": "#F8D030",
	"psychic":  "#F85888",
	"ice":      "#98D8D8",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"fairy":    "#EE99AC",
}

// TypeColor returns the terminal badge color for a type, lightened
// slightly so dark badges stay readable on dark backgrounds. Unknown
// types get a neutral gray.
func TypeColor(typeName string) (r, g, b uint8) {
	hex, ok := typePalette[typeName]
	if !ok {
		hex = "#9A9A9A"
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 154, 154, 154
	}
	c = c.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.15).Clamped()
	return c.RGB255()
}
