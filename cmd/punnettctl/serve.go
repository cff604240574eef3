package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JKrag/punnett-simulator/internal/httpapi"
	"github.com/JKrag/punnett-simulator/internal/platform/httpserver"
	"github.com/JKrag/punnett-simulator/internal/platform/metrics"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&a.cfg.Addr, "addr", a.cfg.Addr, "listen address")
	return cmd
}

// serve runs the API until ctx is cancelled, then shuts down gracefully.
func (a *app) serve(ctx context.Context) error {
	m := metrics.New()
	client, err := a.newClient(ctx, m)
	if err != nil {
		return err
	}
	defer client.Close()

	srv := httpserver.New(a.cfg.Addr, httpapi.New(client, a.log, m).Routes())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("api listening", "addr", a.cfg.Addr, "store", a.cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
