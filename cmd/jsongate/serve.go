package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/jsongate/internal/logger"
	"github.com/deppfellow/jsongate/internal/router"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		loggerService := logger.NewLoggerService(cfg.Observability)
		log := logger.NewLoggerWithService(cfg.Observability, loggerService)

		srv, err := server.New(cfg, &log, loggerService)
		if err != nil {
			return errors.Wrap(err, "failed to initialize server")
		}

		e, _, err := router.NewRouter(srv)
		if err != nil {
			return err
		}
		srv.SetupHTTPServer(e)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				log.Error().Err(err).Msg("server stopped")
				return errors.Wrap(err, "failed to start server")
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "server forced to shutdown")
		}

		log.Info().Msg("server exited properly")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
