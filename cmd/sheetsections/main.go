// Package main provides the CLI entry point for sheetsections-go.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ukaji3/sheetsections-go/internal/config"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/parser"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "sheetsections",
		Short: "Group Google Sheets rows into collapsible sections",
		Long: `sheetsections-go fetches a Google Sheets export, detects section header
rows and groups the rows below them into sections, rendered as JSON, HTML or text.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")

	rootCmd.AddCommand(newGroupCmd(&configPath), newServeCmd(&configPath))
	return rootCmd
}

// loadOptions derives loading options from the grouping and fetch settings.
func loadOptions(cfg *config.Config, logger *slog.Logger) sheetsections.Options {
	return sheetsections.Options{
		Format:        sheetsections.Format(cfg.Sheet.Format),
		KeepEmptyRows: cfg.Grouping.KeepEmptyRows,
		Classifier: parser.ClassifierParams{
			MarkerColumn:  cfg.Grouping.MarkerColumn,
			MarkerValue:   cfg.Grouping.MarkerValue,
			DensityWindow: cfg.Grouping.DensityWindow,
			DensityMin:    cfg.Grouping.DensityMin,
		},
		Concurrency: cfg.Fetch.Concurrency,
		Logger:      logger,
	}
}
