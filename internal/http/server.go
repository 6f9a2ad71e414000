package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bitscycles/blog/internal/posts"
	"bitscycles/blog/internal/site"
)

// Options configures the HTTP server wiring.
type Options struct {
	Posts     posts.Service
	Site      *site.Site
	BasePath  string
	StaticDir string
	Database  *gorm.DB
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
	// RateLimiter left at its zero value disables rate limiting.
	RateLimiter RateLimiterSettings
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server renders the blog through Huma routes and templ components.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	posts       posts.Service
	site        *site.Site
	basePath    string
	staticDir   string
	logger      *logrus.Logger
	sentry      *sentry.Hub
	db          *gorm.DB
	rateLimiter *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Posts == nil {
		return nil, eris.New("post service is required")
	}
	if opts.Site == nil {
		return nil, eris.New("site metadata is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig(opts.Site.Title, "1.0.0")
	config.Info.Description = opts.Site.Description

	api := humago.New(mux, config)

	srv := &Server{
		api:       api,
		mux:       mux,
		posts:     opts.Posts,
		site:      opts.Site,
		basePath:  strings.TrimRight(opts.BasePath, "/"),
		staticDir: opts.StaticDir,
		logger:    opts.Logger,
		sentry:    opts.SentryHub,
		db:        opts.Database,
	}

	if settings := opts.RateLimiter; settings != (RateLimiterSettings{}) {
		if settings.Burst <= 0 {
			return nil, eris.New("rate limiter burst must be greater than zero")
		}
		if settings.RequestsPerSecond <= 0 {
			return nil, eris.New("rate limiter requests per second must be greater than zero")
		}
		if settings.ClientTTL <= 0 {
			return nil, eris.New("rate limiter client TTL must be greater than zero")
		}
		srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler serves the site under the configured base path, the way the exported
// files are laid out when published.
func (s *Server) Handler() stdhttp.Handler {
	if s.basePath == "" {
		return s.mux
	}

	outer := stdhttp.NewServeMux()
	outer.Handle(s.basePath+"/", stdhttp.StripPrefix(s.basePath, s.mux))
	outer.Handle("GET /{$}", stdhttp.RedirectHandler(s.basePath+"/", stdhttp.StatusFound))
	return outer
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
		s.exactRootMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("GET /static/", s.staticHandler())

	s.registerListRoutes()
	s.registerPostRoute()
	s.registerAboutRoute()
	s.registerFeedRoute()
	s.registerHealthRoute()
}

// ServeHTTP serves routes relative to the site root, ignoring the base path.
func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
