// Package cli wires configuration, the SII source and the service into the
// uffetcher command line.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"uffetcher/internal/config"
	"uffetcher/internal/sii"
	"uffetcher/internal/ufservice"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "uffetcher",
	Short:         "uffetcher serves the daily Chilean UF value scraped from SII.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

// ExecuteContext runs the root command
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration, installs the logger and builds the service.
// The returned source must be closed by the caller.
func setup() (*config.Config, *sii.Source, *ufservice.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	level, _ := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	source := sii.NewSource(cfg.SourceOptions())
	return cfg, source, ufservice.New(source), nil
}
