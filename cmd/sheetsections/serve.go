package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ukaji3/sheetsections-go/internal/cache"
	"github.com/ukaji3/sheetsections-go/internal/config"
	"github.com/ukaji3/sheetsections-go/internal/logging"
	"github.com/ukaji3/sheetsections-go/internal/metrics"
	"github.com/ukaji3/sheetsections-go/internal/server"
	"github.com/ukaji3/sheetsections-go/internal/sources"
)

func newServeCmd(configPath *string) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured spreadsheet as an HTML page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServe(cmd, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides configuration)")
	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	if closer, ok := c.(io.Closer); ok {
		defer closer.Close()
	}
	if pinger, ok := c.(*cache.Redis); ok {
		if err := pinger.Ping(ctx); err != nil {
			logger.Warn("redis cache unavailable, fetching without cache", slog.Any("error", err))
		}
	}

	srcs, err := sources.FromConfig(ctx, cfg, c, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	srv := server.New(cfg, server.NewLoader(cfg.Sheet.Title, srcs, loadOptions(cfg, logger), m), m, logger)
	logger.Info("serving spreadsheet",
		slog.String("sheet_id", cfg.Sheet.ID),
		slog.Int("tabs", len(srcs)),
		slog.String("cache", cfg.Cache.Backend),
	)
	return srv.Start(ctx)
}
