package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"

	applog "bitscycles/blog/internal/log"
	"bitscycles/blog/internal/posts"
)

func writePost(t *testing.T, dir, name, contents string) {
	t.Helper()

	path := filepath.Join(dir, PostsSubdir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating post directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing post %s: %v", name, err)
	}
}

func newTestLoader(t *testing.T, dir string, categories ...string) *Loader {
	t.Helper()

	set, err := posts.NewCategories(categories...)
	if err != nil {
		t.Fatalf("NewCategories returned error: %v", err)
	}

	loader, err := NewLoader(LoaderOptions{ContentDir: dir, Categories: set, Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("NewLoader returned error: %v", err)
	}
	return loader
}

func TestLoadOrdersNewestFirstWithUndatedLast(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "old.md", "---\ntitle: Old\ndate: 2022-05-01\n---\nOld body.\n")
	writePost(t, dir, "new.md", "---\ntitle: New\ndate: \"2024-03-10T08:00:00Z\"\n---\nNew body.\n")
	writePost(t, dir, "undated.md", "---\ntitle: Undated\n---\nNo date here.\n")
	writePost(t, dir, "nested/same-day-b.mdx", "---\ndate: 2023-01-01\n---\nB.\n")
	writePost(t, dir, "same-day-a.md", "---\ndate: 2023-01-01\n---\nA.\n")
	writePost(t, dir, "notes.txt", "not a post")

	loaded, err := newTestLoader(t, dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := []string{"new", "same-day-a", "same-day-b", "old", "undated"}
	if len(loaded) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(loaded))
	}
	for i, slug := range want {
		if loaded[i].Slug != slug {
			t.Fatalf("position %d: expected %s, got %s", i, slug, loaded[i].Slug)
		}
	}

	if loaded[2].BodyRef != "posts/nested/same-day-b.mdx" {
		t.Fatalf("expected body ref relative to content dir, got %q", loaded[2].BodyRef)
	}
}

func TestLoadDerivesMissingFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "hello-big_world.md", "---\ncategory: systems\n---\n# Heading\n\nFirst   *paragraph*\ntext.\n\nSecond paragraph.\n")

	loaded, err := newTestLoader(t, dir, "systems").Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected one post, got %d", len(loaded))
	}

	post := loaded[0]
	if post.Slug != "hello-big_world" {
		t.Fatalf("expected slug from file name, got %q", post.Slug)
	}
	if post.Title != "Hello Big World" {
		t.Fatalf("expected title from file name, got %q", post.Title)
	}
	if post.Summary != "First paragraph text." {
		t.Fatalf("expected summary from first paragraph, got %q", post.Summary)
	}
	if !strings.Contains(post.HTML, `<h1 id="heading">Heading</h1>`) {
		t.Fatalf("expected rendered heading with id, got %s", post.HTML)
	}
	if post.Dated() {
		t.Fatalf("expected undated post")
	}
}

func TestLoadHonoursFrontMatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "file.md", "---\ntitle: Custom\nslug: custom-slug\nsummary: Hand written.\ndate: 2024-01-02 15:04:05\n---\nBody.\n")

	loaded, err := newTestLoader(t, dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	post := loaded[0]
	if post.Slug != "custom-slug" || post.Title != "Custom" || post.Summary != "Hand written." {
		t.Fatalf("unexpected post %#v", post)
	}
	want := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	if !post.PublishedAt.Equal(want) {
		t.Fatalf("expected %s, got %s", want, post.PublishedAt)
	}
}

func TestLoadSkipsDrafts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "draft.md", "---\ndraft: true\n---\nWork in progress.\n")
	writePost(t, dir, "live.md", "Live.\n")

	loaded, err := newTestLoader(t, dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Slug != "live" {
		t.Fatalf("expected only the live post, got %v", loaded)
	}
}

func TestLoadRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "post.md", "---\ncategory: cooking\n---\nBody.\n")

	_, err := newTestLoader(t, dir, "systems").Load(context.Background())
	if !eris.Is(err, posts.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLoadAllowsUncategorizedPosts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "loose.md", "Loose.\n")
	writePost(t, dir, "filed.md", "---\ncategory: systems\n---\nFiled.\n")

	loaded, err := newTestLoader(t, dir, "systems").Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected both posts, got %v", loaded)
	}
	for _, post := range loaded {
		if post.Slug == "loose" && post.Category != "" {
			t.Fatalf("expected loose post to stay uncategorized, got %q", post.Category)
		}
	}
}

func TestLoadRejectsRelativePathNames(t *testing.T) {
	t.Parallel()

	for _, contents := range []string{
		"---\nslug: ..\n---\nBody.\n",
		"---\nslug: .\n---\nBody.\n",
		"---\nslug: a/b\n---\nBody.\n",
		"---\ncategory: ..\n---\nBody.\n",
	} {
		dir := t.TempDir()
		writePost(t, dir, "post.md", contents)

		_, err := newTestLoader(t, dir).Load(context.Background())
		if !eris.Is(err, posts.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument for %q, got %v", contents, err)
		}
	}
}

func TestLoadRejectsDuplicateSlugs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\nslug: same\n---\nA.\n")
	writePost(t, dir, "b.md", "---\nslug: same\n---\nB.\n")

	_, err := newTestLoader(t, dir).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "duplicate post slug") {
		t.Fatalf("expected duplicate slug error, got %v", err)
	}
}

func TestLoadRejectsBadDate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "post.md", "---\ndate: yesterday\n---\nBody.\n")

	if _, err := newTestLoader(t, dir).Load(context.Background()); err == nil {
		t.Fatalf("expected error for unparseable date")
	}
}

func TestLoadMissingPostsDirectory(t *testing.T) {
	t.Parallel()

	loaded, err := newTestLoader(t, t.TempDir()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded == nil || len(loaded) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", loaded)
	}
}

func TestNewLoaderRequiresDirectory(t *testing.T) {
	t.Parallel()

	if _, err := NewLoader(LoaderOptions{}); err == nil {
		t.Fatalf("expected error when content directory is empty")
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	if got := truncateRunes("short", 10); got != "short" {
		t.Fatalf("expected untouched text, got %q", got)
	}

	got := truncateRunes("alpha beta gamma delta", 13)
	if got != "alpha beta…" {
		t.Fatalf("expected cut at word boundary, got %q", got)
	}
}
