package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing/internal/cli"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the machine engine in server mode, exposing a JSON API over HTTP.
Machines are read from --dir; sessions go to the store selected by TURING_STORE
(memory, file or redis). Prometheus metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		watch, _ := cmd.Flags().GetBool("watch")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		metrics := observability.NewMetrics()
		catalog, err := cli.NewCatalog(cfg, logger, metrics.Hooks())
		if err != nil {
			return fmt.Errorf("failed to open machines: %w", err)
		}
		sessions, closeBackend, err := cli.NewSessionManager(cfg, logger, catalog)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer closeBackend()

		if watch {
			ok, err := catalog.Watch(ctx)
			if err != nil {
				return err
			}
			if !ok {
				logger.Warn("Machine repository cannot be watched", "dir", cfg.Dir)
			}
		}

		api, err := httpAdapter.NewServer(catalog, sessions,
			httpAdapter.WithMetrics(metrics),
			httpAdapter.WithMaxSteps(cfg.MaxSteps),
			httpAdapter.WithRunTimeout(cfg.RunTimeout),
			httpAdapter.WithCORSOrigin(cfg.CORSOrigin),
			httpAdapter.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Turing Server", "addr", srv.Addr, "dir", cfg.Dir, "store", cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil

		case <-ctx.Done():
			logger.Info("Start shutdown...", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Turing Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (env TURING_ADDR)")
	serveCmd.Flags().BoolP("watch", "w", false, "Recompile machines when the repository changes")
}
