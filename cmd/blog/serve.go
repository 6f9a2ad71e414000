package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bitscycles/blog/internal/app/bootstrap"
	"bitscycles/blog/internal/content"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the site locally",
		Long: `Serves the site from memory and, unless --watch=false, reloads posts when
files under the content directory change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if cmd.Flags().Changed("port") {
				cfg.ServerPort = port
			}
			return serve(cmd.Context(), a, bootstrap.Dependencies{
				Config:    cfg,
				Logger:    a.logger,
				SentryHub: a.sentryHub,
				RateLimit: true,
			}, watch)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides SERVER_PORT)")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload posts when content files change")
	return cmd
}

func serve(ctx context.Context, a *app, deps bootstrap.Dependencies, watch bool) error {
	logger := a.logger
	cfg := deps.Config

	result, err := bootstrap.Build(ctx, deps)
	if err != nil {
		return eris.Wrap(err, "bootstrapping site")
	}
	defer func() {
		if closeErr := result.Cleanup(); closeErr != nil {
			logger.WithError(closeErr).Error("releasing resources")
		}
	}()

	if watch {
		stopWatching := startWatcher(ctx, content.WatchOptions{
			Dirs:   []string{cfg.ContentDir},
			Logger: logger,
			OnChange: func(ctx context.Context) error {
				return result.Reload(ctx, logger)
			},
		})
		defer stopWatching()
	}

	httpServer := &stdhttp.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.ServerPort),
		Handler: result.HTTPServer.Handler(),
	}

	logger.WithFields(logrus.Fields{
		"addr":      httpServer.Addr,
		"base_path": cfg.BasePath,
	}).Info("starting preview server")

	serverErrCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			return eris.Wrap(err, "http server error")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down http server")
	}

	logger.Info("preview server shut down cleanly")
	return nil
}

// startWatcher runs the content watcher in the background. The returned stop
// function cancels it and blocks until any in-flight reload has finished.
func startWatcher(ctx context.Context, opts content.WatchOptions) func() {
	watchCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := content.Watch(watchCtx, opts); err != nil && opts.Logger != nil {
			opts.Logger.WithError(err).Error("content watcher stopped")
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}
