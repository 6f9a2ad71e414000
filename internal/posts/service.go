package posts

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Service is the query surface the renderer uses. Every call is a read against the
// already materialised catalog.
type Service interface {
	GetPage(ctx context.Context, req PageRequest) (PageResult, error)
	GetPost(ctx context.Context, slug string) (*Post, error)
	Recent(ctx context.Context, limit int) ([]Post, error)
	CategoryCounts(ctx context.Context) (map[string]int64, error)
}

type service struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// ErrPostNotFound indicates no post exists for the requested slug.
var ErrPostNotFound = eris.New("post not found")

// NewService wires the post service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("post repository is required")
	}

	return &service{
		repo:      repo,
		logger:    logger,
		sentryHub: hub,
	}, nil
}

func (s *service) GetPage(ctx context.Context, req PageRequest) (PageResult, error) {
	if err := req.Validate(); err != nil {
		return PageResult{}, err
	}

	all, err := s.repo.ListPosts(ctx)
	if err != nil {
		s.recordError(logrus.Fields{"page": req.Page, "category": req.Category}, err, "loading posts for page")
		return PageResult{}, eris.Wrap(err, "loading posts for page")
	}

	return Paginate(all, req)
}

func (s *service) GetPost(ctx context.Context, slug string) (*Post, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, eris.Wrap(ErrInvalidArgument, "slug is required")
	}

	post, err := s.repo.GetBySlug(ctx, trimmed)
	if err != nil {
		s.recordError(logrus.Fields{"slug": trimmed}, err, "retrieving post from repository")
		return nil, eris.Wrapf(err, "retrieving post: %s", trimmed)
	}

	if post == nil {
		return nil, eris.Wrapf(ErrPostNotFound, "retrieving post: %s", trimmed)
	}

	return post, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Post, error) {
	result, err := s.GetPage(ctx, PageRequest{Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.Posts, nil
}

func (s *service) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		s.recordError(nil, err, "counting posts by category")
		return nil, eris.Wrap(err, "counting posts by category")
	}
	return counts, nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
