package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/http"
	"vectoradmin/internal/schedule"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(profile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the console API, the proxy relay and the snapshot job",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *profile)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	conn := a.client.Connection()
	var upstream *url.URL
	if conn.Mode == chroma.ModeProxy {
		u, err := url.Parse(conn.BaseURL)
		if err != nil {
			return fmt.Errorf("parse upstream %q: %w", conn.BaseURL, err)
		}
		upstream = u
		slog.Info("proxy relay enabled", "prefix", chroma.ProxyPrefix, "upstream", conn.BaseURL)
	}

	// Detect capabilities before anything issues versioned requests, so the
	// snapshot job and the first UI request see a pinned session.
	// Failures are recorded in the matrix, not returned.
	caps := a.console.Capabilities(ctx, true)
	slog.Info("server capabilities detected", "api_version", caps.APIVersion, "server_version", caps.ServerVersion)

	if a.cfg.SnapshotSchedule != "" {
		scheduler := schedule.NewCronScheduler()
		if err := scheduler.AddJob(schedule.NewSnapshotJob(a.client, a.snapshots), a.cfg.SnapshotSchedule); err != nil {
			return err
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &nethttp.Server{
		Addr:              ":" + a.cfg.APIPort,
		Handler:           http.NewRouter(&http.Deps{Console: a.console, Upstream: upstream}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting API server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
