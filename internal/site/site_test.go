package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"

	"bitscycles/blog/internal/posts"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "site.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if s.Title != defaultTitle {
		t.Fatalf("expected default title %q, got %q", defaultTitle, s.Title)
	}
	if s.PostsPerPage != defaultPostsPerPage {
		t.Fatalf("expected %d posts per page, got %d", defaultPostsPerPage, s.PostsPerPage)
	}
	if s.Categories().Len() != 0 {
		t.Fatalf("expected no configured categories, got %v", s.Categories().Names())
	}
}

func TestLoadReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "site.yaml")
	contents := `title: Packets
author: Someone
url: https://example.org/
intro:
  - First paragraph.
  - "   "
  - Second paragraph.
categories:
  - systems
  - networking
posts_per_page: 3
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing site file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if s.Title != "Packets" || s.Author != "Someone" {
		t.Fatalf("unexpected title/author %q/%q", s.Title, s.Author)
	}
	if s.MetaTitle != defaultMetaTitle {
		t.Fatalf("expected default meta title, got %q", s.MetaTitle)
	}
	if s.URL != "https://example.org" {
		t.Fatalf("expected trailing slash trimmed from url, got %q", s.URL)
	}
	if len(s.IntroParagraphs) != 2 {
		t.Fatalf("expected blank intro paragraphs dropped, got %v", s.IntroParagraphs)
	}
	if s.PostsPerPage != 3 {
		t.Fatalf("expected 3 posts per page, got %d", s.PostsPerPage)
	}

	names := s.Categories().Names()
	if len(names) != 2 || names[0] != "systems" || names[1] != "networking" {
		t.Fatalf("unexpected categories %v", names)
	}
}

func TestParseRejectsDuplicateCategories(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("categories: [systems, systems]\n"))
	if !eris.Is(err, posts.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseRejectsNegativePageSize(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("posts_per_page: -1\n")); err == nil {
		t.Fatalf("expected error for negative page size")
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("postsperpage: 4\n")); err == nil {
		t.Fatalf("expected error for misspelled key")
	}
}
