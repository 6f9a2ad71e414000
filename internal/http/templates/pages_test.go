package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func renderString(t *testing.T, render func(*bytes.Buffer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	return buf.String()
}

func testLayout() LayoutData {
	return LayoutData{
		SiteTitle:   "Bits, Cycles, and Packets",
		MetaTitle:   "Software Engineering Blog",
		Description: "A blog about software engineering",
		BasePath:    "/a1pha.github.io",
	}
}

func TestLayoutRendersChrome(t *testing.T) {
	t.Parallel()

	out := renderString(t, func(buf *bytes.Buffer) error {
		ctx := templ.WithChildren(context.Background(), RawHTML("<p>inner</p>"))
		return Layout(testLayout()).Render(ctx, buf)
	})

	for _, want := range []string{
		"<title>Software Engineering Blog</title>",
		`<meta name="description" content="A blog about software engineering">`,
		`href="/a1pha.github.io/"`,
		`href="/a1pha.github.io/about"`,
		`href="/a1pha.github.io/static/site.css"`,
		"<p>inner</p>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got %s", want, out)
		}
	}
}

func TestListPageRendersPostsPaginationAndCategories(t *testing.T) {
	t.Parallel()

	data := ListPageData{
		Layout: testLayout(),
		Posts: []PostSummaryView{
			{Title: "Caches <and> you", URL: "/posts/caches", Category: "systems", CategoryURL: "/category/systems", Date: "January 2, 2024", DateISO: "2024-01-02", Summary: "A summary."},
		},
		Pagination: PaginationView{
			Page:       2,
			TotalPages: 3,
			PrevURL:    "/page/1",
			NextURL:    "/page/3",
			Links: []PageLinkView{
				{Number: 1, URL: "/page/1"},
				{Number: 2, URL: "/page/2", Current: true},
				{Number: 3, URL: "/page/3"},
			},
		},
		Categories: []CategoryLinkView{{Name: "systems", URL: "/category/systems", Count: 4, Active: true}},
	}

	out := renderString(t, func(buf *bytes.Buffer) error {
		return ListPage(data).Render(context.Background(), buf)
	})

	for _, want := range []string{
		"Caches &lt;and&gt; you",
		`<time datetime="2024-01-02">January 2, 2024</time>`,
		`href="/page/1" rel="prev"`,
		`href="/page/3" rel="next"`,
		`href="/page/2" aria-current="page"`,
		"Page 2 of 3",
		`<h2>Categories</h2>`,
		"(4)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got %s", want, out)
		}
	}
}

func TestListPageEmptyListing(t *testing.T) {
	t.Parallel()

	data := ListPageData{
		Layout:       testLayout(),
		EmptyMessage: "No posts yet.",
		Pagination:   PaginationView{Page: 1, TotalPages: 1},
	}

	out := renderString(t, func(buf *bytes.Buffer) error {
		return ListPage(data).Render(context.Background(), buf)
	})

	if !strings.Contains(out, "No posts yet.") {
		t.Fatalf("expected empty message, got %s", out)
	}
	if strings.Contains(out, `class="pagination"`) {
		t.Fatalf("did not expect pagination controls for a single page")
	}
}

func TestPostPageWritesBodyUnescaped(t *testing.T) {
	t.Parallel()

	out := renderString(t, func(buf *bytes.Buffer) error {
		return PostPage(PostPageData{Layout: testLayout(), Title: "Hello", HTML: "<h2 id=\"x\">X</h2>"}).Render(context.Background(), buf)
	})

	if !strings.Contains(out, `<h2 id="x">X</h2>`) {
		t.Fatalf("expected raw body, got %s", out)
	}
	if !strings.Contains(out, "<title>Hello • Software Engineering Blog</title>") {
		t.Fatalf("expected page title prefix, got %s", out)
	}
}

func TestPostPageKeepsExplicitPageTitle(t *testing.T) {
	t.Parallel()

	layout := testLayout()
	layout.PageTitle = "Custom"

	out := renderString(t, func(buf *bytes.Buffer) error {
		return PostPage(PostPageData{Layout: layout, Title: "Hello"}).Render(context.Background(), buf)
	})

	if !strings.Contains(out, "<title>Custom • Software Engineering Blog</title>") {
		t.Fatalf("expected explicit page title, got %s", out)
	}
	if !strings.Contains(out, "<h1>Hello</h1>") {
		t.Fatalf("expected post heading, got %s", out)
	}
}

func TestLayoutRendersFooterNote(t *testing.T) {
	t.Parallel()

	layout := testLayout()
	layout.FooterNote = "Built from Markdown <files>"

	out := renderString(t, func(buf *bytes.Buffer) error {
		return ErrorPage(ErrorPageData{Layout: layout, StatusLabel: "Not found", Message: "Missing."}).Render(context.Background(), buf)
	})

	for _, want := range []string{
		`<footer class="site-footer"><p>Built from Markdown &lt;files&gt;</p></footer>`,
		"<h1>Not found</h1>",
		`href="/a1pha.github.io/">Back to the front page`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got %s", want, out)
		}
	}
}

func TestAboutPageRendersProfile(t *testing.T) {
	t.Parallel()

	data := AboutPageData{
		Layout:       testLayout(),
		Author:       "Abhi Jadhav",
		ProfileImage: "/a1pha.github.io/static/profile.jpg",
		ProfileSize:  200,
		Intro:        []string{"Hello there."},
	}

	out := renderString(t, func(buf *bytes.Buffer) error {
		return AboutPage(data).Render(context.Background(), buf)
	})

	for _, want := range []string{
		"<h1>Abhi Jadhav</h1>",
		`src="/a1pha.github.io/static/profile.jpg"`,
		`width="200" height="200"`,
		"<h2>Introduction</h2>",
		"<p>Hello there.</p>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got %s", want, out)
		}
	}
}

func TestRenderStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := ErrorPage(ErrorPageData{Layout: testLayout()}).Render(ctx, &buf); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
