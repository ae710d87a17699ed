package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/httpapi"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 30 * time.Second
	pruneInterval   = time.Hour
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portal's JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())
			return runServe(ctx, app, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.Addr, "Address to listen on")
	return cmd
}

// runServe serves the API on ln until ctx is cancelled, ticking the
// shared visitor counter and pruning idle sessions alongside.
func runServe(ctx context.Context, app *App, ln net.Listener) error {
	log := app.logger()
	visitors := store.New(app.Registry, store.WithLogger(log))

	srv := httpapi.NewServer(httpapi.Deps{
		Villages:    app.Villages,
		Preferences: app.Preferences,
		Visitors:    visitors,
		Logger:      log,
		CORSOrigins: app.Config.CORSOrigins,
		SessionTTL:  app.Config.SessionTTL,
		Now:         app.Now,
	})
	httpSrv := httpapi.NewHTTPServer(ln.Addr().String(), srv.Handler())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server started", "addr", ln.Addr().String())
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		log.Info("http server shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return store.RunVisitorTicker(gctx, visitors, app.Config.VisitorInterval)
	})

	g.Go(func() error {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				n, err := app.Preferences.Prune(gctx, app.Config.SessionTTL)
				if err != nil {
					log.Warn("prune sessions", "error", err)
					continue
				}
				if n > 0 {
					log.Info("pruned idle sessions", "count", n)
				}
			}
		}
	})

	return g.Wait()
}
