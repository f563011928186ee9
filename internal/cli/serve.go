package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx context.Context, a *app) *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered notes and summaries over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.cfg.Addr
			if addrFlag != "" {
				addr = addrFlag
			}

			log := newLogger(cmd.ErrOrStderr(), a.cfg.LogLevel, true)
			p := a.processor(chart.ChartJS{})
			srv := server.New(a.vault, p, a.cfg.Language, log.With("component", "http"))

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ln, srv, log)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config, 127.0.0.1:8420)")

	return cmd
}

// serve runs handler on ln until ctx is done, then drains connections.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, log *slog.Logger) error {
	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting ttsum server", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
