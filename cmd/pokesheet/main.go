package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arcwork/pokesheet/internal/artwork"
	"github.com/arcwork/pokesheet/internal/cache"
	"github.com/arcwork/pokesheet/internal/config"
	"github.com/arcwork/pokesheet/internal/pokeapi"
	"github.com/arcwork/pokesheet/internal/session"
	"github.com/arcwork/pokesheet/internal/sheet"
	"github.com/arcwork/pokesheet/internal/shell"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	spec := sheet.PageSpec{
		WidthMM:       config.DefaultPageWidthMM,
		HeightMM:      config.DefaultPageHeightMM,
		OuterMarginMM: config.DefaultOuterMarginMM,
		InnerMarginMM: config.DefaultInnerMarginMM,
		FontSizeMM:    config.DefaultFontSizeMM,
		DPI:           config.DefaultDPI,
		Rows:          config.DefaultRows,
		Columns:       config.DefaultColumns,
		Crop:          true,
	}
	var verbose bool

	cmd := &cobra.Command{
		Use:     "pokesheet",
		Short:   "Interactive Pokémon coloring page generator",
		Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
		Long: `pokesheet curates a grid of Pokémon and renders it into a printable
coloring page: line-art renditions laid out on a physical page with
labels and separator lines.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, spec, verbose)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&spec.WidthMM, "page-width", spec.WidthMM, "page width in mm")
	flags.Float64Var(&spec.HeightMM, "page-height", spec.HeightMM, "page height in mm")
	flags.Float64Var(&spec.OuterMarginMM, "outer-margin", spec.OuterMarginMM, "outer margin in mm")
	flags.Float64Var(&spec.InnerMarginMM, "inner-margin", spec.InnerMarginMM, "inner margin in mm")
	flags.Float64Var(&spec.FontSizeMM, "font-size", spec.FontSizeMM, "font size in mm")
	flags.IntVar(&spec.DPI, "dpi", spec.DPI, "output resolution in dots per inch")
	flags.IntVar(&spec.Rows, "rows", spec.Rows, "number of grid rows")
	flags.IntVar(&spec.Columns, "columns", spec.Columns, "number of grid columns")
	flags.BoolVar(&verbose, "verbose", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, spec sheet.PageSpec, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// A .env file may override endpoints and cache settings.
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("page setup: %w", err)
	}

	store := cache.New(cfg.CacheDir)
	if err := store.EvictOlderThan(cfg.CacheMaxAge); err != nil {
		slog.Warn("cache eviction failed", "error", err)
	}

	client := pokeapi.New(cfg.APIBaseURL, cfg.SpritesBaseURL)
	resolver := artwork.NewResolver(client, store, cfg.Language)

	sess := session.New(client, resolver, store, spec, nil)
	fmt.Fprintln(cmd.OutOrStdout(), "Loading Pokédex...")
	if err := sess.Init(cmd.Context()); err != nil {
		return err
	}

	return shell.New(sess).Run(cmd.Context())
}
