package posts

import "testing"

func TestNewPaginationMiddlePage(t *testing.T) {
	t.Parallel()

	p := NewPagination(PageRequest{Page: 2, Limit: 2}, 5, "")

	if p.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", p.TotalPages)
	}
	if !p.HasPrev || p.PrevURL != "/page/1" {
		t.Fatalf("expected previous link /page/1, got %v %q", p.HasPrev, p.PrevURL)
	}
	if !p.HasNext || p.NextURL != "/page/3" {
		t.Fatalf("expected next link /page/3, got %v %q", p.HasNext, p.NextURL)
	}
	if len(p.Links) != 3 || !p.Links[1].Current {
		t.Fatalf("expected three links with the second current, got %+v", p.Links)
	}
}

func TestNewPaginationCategoryWithBasePath(t *testing.T) {
	t.Parallel()

	p := NewPagination(PageRequest{Page: 1, Limit: 1, Category: "systems"}, 2, "/a1pha.github.io")

	if p.HasPrev {
		t.Fatalf("expected no previous link on first page")
	}
	if p.NextURL != "/a1pha.github.io/category/systems/page/2" {
		t.Fatalf("unexpected next URL %q", p.NextURL)
	}
}

func TestNewPaginationEmptyListing(t *testing.T) {
	t.Parallel()

	p := NewPagination(PageRequest{Page: 1, Limit: 10}, 0, "")

	if p.TotalPages != 1 {
		t.Fatalf("expected a single page for empty listing, got %d", p.TotalPages)
	}
	if p.HasPrev || p.HasNext {
		t.Fatalf("expected no navigation for empty listing")
	}
}

func TestNewPaginationOutOfRangePointsBackToLastPage(t *testing.T) {
	t.Parallel()

	p := NewPagination(PageRequest{Page: 9, Limit: 2}, 5, "")

	if p.HasNext {
		t.Fatalf("expected no next link past the end")
	}
	if p.PrevURL != "/page/3" {
		t.Fatalf("expected previous link to clamp to last page, got %q", p.PrevURL)
	}
	for _, link := range p.Links {
		if link.Current {
			t.Fatalf("expected no current link for out of range page, got %+v", link)
		}
	}
}

func TestURLHelpersEscapeSegments(t *testing.T) {
	t.Parallel()

	if got := CategoryURL("", "c and c++"); got != "/category/c%20and%20c++" {
		t.Fatalf("unexpected category URL %q", got)
	}
	if got := PostURL("/base", "hello-world"); got != "/base/posts/hello-world" {
		t.Fatalf("unexpected post URL %q", got)
	}
}
