package posts

import (
	"context"
	"io"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

func TestNewServiceRequiresRepository(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, silentLogger(), nil); err == nil {
		t.Fatalf("expected error when repository is nil")
	}
}

func TestServiceGetPageSlicesRepositoryOrder(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{posts: makePosts("A", "B", "C", "D", "E")}
	service := newTestService(t, repo)

	result, err := service.GetPage(context.Background(), PageRequest{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("GetPage returned error: %v", err)
	}

	if got := slugsOf(result.Posts); !equalSlugs(got, []string{"C", "D"}) {
		t.Fatalf("expected [C D], got %v", got)
	}
	if result.Total != 5 {
		t.Fatalf("expected total 5, got %d", result.Total)
	}
}

func TestServiceGetPageValidatesBeforeLoading(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{}
	service := newTestService(t, repo)

	_, err := service.GetPage(context.Background(), PageRequest{Page: 0, Limit: 10})
	if !eris.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if repo.listCalls != 0 {
		t.Fatalf("expected repository not to be consulted, got %d calls", repo.listCalls)
	}
}

func TestServiceGetPagePropagatesRepositoryError(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{listErr: errStub("disk on fire")}
	service := newTestService(t, repo)

	_, err := service.GetPage(context.Background(), PageRequest{Page: 1, Limit: 10})
	if err == nil {
		t.Fatalf("expected repository error to be propagated")
	}
	if eris.Is(err, ErrInvalidArgument) {
		t.Fatalf("did not expect repository failure to look like a caller error")
	}
}

func TestServiceGetPostNotFound(t *testing.T) {
	t.Parallel()

	service := newTestService(t, &stubRepository{})

	_, err := service.GetPost(context.Background(), "nope")
	if !eris.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestServiceGetPostRequiresSlug(t *testing.T) {
	t.Parallel()

	service := newTestService(t, &stubRepository{})

	_, err := service.GetPost(context.Background(), "   ")
	if !eris.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestServiceGetPostReturnsStoredPost(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{posts: []Post{{Slug: "hello", Title: "Hello"}}}
	service := newTestService(t, repo)

	post, err := service.GetPost(context.Background(), " hello ")
	if err != nil {
		t.Fatalf("GetPost returned error: %v", err)
	}
	if post.Title != "Hello" {
		t.Fatalf("expected Hello, got %q", post.Title)
	}
}

func TestServiceRecentReturnsFirstPage(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{posts: makePosts("a", "b", "c")}
	service := newTestService(t, repo)

	recent, err := service.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if got := slugsOf(recent); !equalSlugs(got, []string{"a", "b"}) {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()

	service, err := NewService(repo, silentLogger(), nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return service
}

type stubRepository struct {
	posts     []Post
	listErr   error
	listCalls int
}

var _ Repository = (*stubRepository)(nil)

func (s *stubRepository) ReplaceAll(_ context.Context, posts []Post) error {
	s.posts = posts
	return nil
}

func (s *stubRepository) ListPosts(_ context.Context) ([]Post, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.posts, nil
}

func (s *stubRepository) GetBySlug(_ context.Context, slug string) (*Post, error) {
	for _, post := range s.posts {
		if post.Slug == slug {
			p := post
			return &p, nil
		}
	}
	return nil, nil
}

func (s *stubRepository) CountPosts(_ context.Context) (int64, error) {
	return int64(len(s.posts)), nil
}

func (s *stubRepository) CountByCategory(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, post := range s.posts {
		counts[post.Category]++
	}
	return counts, nil
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type errStub string

func (e errStub) Error() string {
	return string(e)
}
