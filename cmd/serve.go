package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/ytsum/internal/server"
	"github.com/desertthunder/ytsum/internal/services"
	"github.com/desertthunder/ytsum/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the local pipeline server until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("path") {
		cfg.Path = cmd.String("path")
	}
	if cmd.IsSet("token") {
		cfg.AuthToken = cmd.String("token")
	}

	db, err := shared.OpenSummaryStore(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(db, server.Opts{AuthToken: cfg.AuthToken, Logger: r.logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	r.logger.Info("pipeline server listening", "addr", srv.Addr, "db", cfg.Path, "auth", cfg.AuthToken != "")
	r.writePlain("Serving %s on http://%s%s\n", cfg.Path, srv.Addr, services.PipelinePath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		r.logger.Info("shutting down pipeline server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
