package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bitscycles/blog/internal/config"
	"bitscycles/blog/internal/content"
	"bitscycles/blog/internal/db"
	"bitscycles/blog/internal/export"
	apphttp "bitscycles/blog/internal/http"
	"bitscycles/blog/internal/posts"
	"bitscycles/blog/internal/site"
)

// Dependencies are the process-wide values every command shares.
type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
	// RateLimit enables the per-client limiter; only the preview server wants it.
	RateLimit bool
}

// Result holds the composed application.
type Result struct {
	Site        *site.Site
	Loader      *content.Loader
	Repository  posts.Repository
	PostService posts.Service
	HTTPServer  *apphttp.Server
	Database    *gorm.DB
	Cleanup     func() error
}

// Build loads the site metadata, fills the catalog from the content directory and
// wires the post service and HTTP server on top of it.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	cfg := deps.Config

	meta, err := site.Load(cfg.SiteFile)
	if err != nil {
		return Result{}, eris.Wrap(err, "loading site metadata")
	}

	conn, err := db.Open(db.Options{Path: cfg.DBPath, Logger: db.NewLogger(deps.Logger)})
	if err != nil {
		return Result{}, eris.Wrap(err, "opening catalog database")
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := db.Close(conn); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	if err := posts.Migrate(ctx, conn, deps.Logger); err != nil {
		return closeOnError(eris.Wrap(err, "running catalog migrations"))
	}

	repo, err := posts.NewRepository(conn, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating post repository"))
	}

	loader, err := content.NewLoader(content.LoaderOptions{
		ContentDir: cfg.ContentDir,
		Categories: meta.Categories(),
		Logger:     deps.Logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating content loader"))
	}

	if _, err := content.Sync(ctx, loader, repo, deps.Logger); err != nil {
		return closeOnError(eris.Wrap(err, "loading content"))
	}

	service, err := posts.NewService(repo, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating post service"))
	}

	var limiter apphttp.RateLimiterSettings
	if deps.RateLimit {
		limiter = apphttp.RateLimiterSettings{
			Burst:             cfg.RateLimit.Burst,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		}
	}

	httpServer, err := apphttp.NewServer(apphttp.Options{
		Posts:       service,
		Site:        meta,
		BasePath:    cfg.BasePath,
		StaticDir:   cfg.StaticDir,
		Database:    conn,
		Logger:      deps.Logger,
		SentryHub:   deps.SentryHub,
		RateLimiter: limiter,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return db.Close(conn)
	}

	return Result{
		Site:        meta,
		Loader:      loader,
		Repository:  repo,
		PostService: service,
		HTTPServer:  httpServer,
		Database:    conn,
		Cleanup:     cleanup,
	}, nil
}

// Exporter returns an exporter writing the composed site into the configured output directory.
func (r Result) Exporter(cfg config.Config, logger *logrus.Logger) (*export.Exporter, error) {
	return export.NewExporter(export.Options{
		Handler:   r.HTTPServer,
		Posts:     r.PostService,
		Site:      r.Site,
		OutputDir: cfg.OutputDir,
		Static:    apphttp.StaticFS(cfg.StaticDir),
		Logger:    logger,
	})
}

// Reload re-reads the content directory into the catalog.
func (r Result) Reload(ctx context.Context, logger *logrus.Logger) error {
	_, err := content.Sync(ctx, r.Loader, r.Repository, logger)
	return err
}
