package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	_ "github.com/tbourn/headache-tracker/docs"
	httpapi "github.com/tbourn/headache-tracker/internal/http"
	"github.com/tbourn/headache-tracker/internal/observability"
	"github.com/tbourn/headache-tracker/internal/repo"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	a, err := bootstrap(os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	gin.SetMode(a.cfg.GinMode)

	shutdownOTel, err := observability.SetupOTel(ctx, a.cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			a.log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	if n, err := repo.PurgeExpiredIdempotency(ctx, a.db, time.Now().UTC()); err != nil {
		a.log.Warn().Err(err).Msg("purge expired idempotency keys")
	} else if n > 0 {
		a.log.Info().Int64("purged", n).Msg("expired idempotency keys removed")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, a.db, a.cfg)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadTimeout:       a.cfg.ReadTimeout,
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
		IdleTimeout:       a.cfg.IdleTimeout,
		MaxHeaderBytes:    a.cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("db_driver", a.cfg.DBDriver).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.log.Info().Msg("server stopped")
	return nil
}
