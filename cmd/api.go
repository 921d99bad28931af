package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodepulse/nodepulse/api"
	"github.com/nodepulse/nodepulse/config"
	"github.com/nodepulse/nodepulse/log"
	"github.com/nodepulse/nodepulse/metrics"
	"github.com/nodepulse/nodepulse/sentry_integration"
	"github.com/nodepulse/nodepulse/util"
)

func apiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Run the nodepulse API server",
		Long: `
Run the nodepulse API server.

This command starts the HTTP API that polls the configured block producer,
RPC and explorer endpoints and serves aggregated status cards per network.

You can configure networks, logging, and server options via environment
variables and the networks file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}

			logger := log.NewLogger(cfg)

			if err := sentry_integration.Init(cfg.GetSentryConfig()); err != nil {
				logger.Warn("sentry init failed", slog.Any("error", err))
			}

			// Initialize the outbound request limiter
			util.InitLimiter(cfg)

			metricsServer := metrics.NewServer(cfg, logger)
			go func() {
				if err := metricsServer.Start(); err != nil {
					logger.Error("metrics server failed", slog.Any("error", err))
				}
			}()

			server := api.New(cfg, logger)

			// graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				logger.Info("shutting down API server...")
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(ctx); err != nil {
					logger.Error("metrics shutdown failed", slog.Any("error", err))
				}
				if err := server.Shutdown(); err != nil {
					logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
					os.Exit(1)
				}
				os.Exit(0)
			}()

			return server.Start()
		},
	}

	return cmd
}
