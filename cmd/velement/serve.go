package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/velement/internal/config"
	"github.com/vango-dev/velement/internal/dev"
	"github.com/vango-dev/velement/internal/errors"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		file  string
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of a page manifest",
		Long: `Mount a page manifest and serve it over HTTP.

Routes:
  GET  /                             page HTML
  GET  /components/{id}              element markup
  POST /components/{id}/props        JSON object of property values
  POST /components/{id}/events/{t}   dispatch event t (?selector=...)
  GET  /components/{id}/live         websocket stream of markup per render
  GET  /metrics                      Prometheus metrics

With --watch the page is rebuilt whenever the manifest file changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			m, err := config.Load(file)
			if err != nil {
				return err
			}
			if addr != "" {
				m.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, m, watch, logger)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", config.DefaultFileName, "Page manifest")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from manifest, then "+config.DefaultAddr+")")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the page when the manifest changes")

	return cmd
}

func serve(ctx context.Context, m *config.Manifest, watch bool, logger *slog.Logger) error {
	reloader := dev.NewReloader(m.Path(), logger)
	if err := reloader.Load(ctx, m); err != nil {
		return err
	}

	if watch {
		w := dev.NewWatcher(dev.WatcherConfig{Paths: []string{m.Path()}})
		w.OnChange(func(c dev.Change) {
			logger.Info("manifest changed", "path", c.Path, "change", c.Type)
			if c.Type != dev.ChangeRemoved {
				reloader.Reload(ctx)
			}
		})
		go w.Start(ctx)
		defer w.Stop()
	}

	srv := &http.Server{
		Addr:              m.Server.Addr,
		Handler:           reloader,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview server starting", "address", m.Server.Addr, "components", len(m.Components), "watch", watch)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			serveErr = errors.New("E301").WithDetail(m.Server.Addr).Wrap(err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	reloader.Close(shutdownCtx)

	if serveErr == nil {
		logger.Info("preview server stopped")
	}
	return serveErr
}
