package export

import (
	"context"
	"io"
	"io/fs"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	applog "bitscycles/blog/internal/log"
	"bitscycles/blog/internal/posts"
	"bitscycles/blog/internal/site"
)

// Options configures an Exporter.
type Options struct {
	// Handler serves routes relative to the site root.
	Handler   stdhttp.Handler
	Posts     posts.Service
	Site      *site.Site
	OutputDir string
	Static    fs.FS
	Logger    *logrus.Logger
}

// Route is one page of the site and where it lands in the output directory.
type Route struct {
	URL  string
	File string
}

// Report summarises a finished export.
type Report struct {
	Pages  int
	Assets int
}

// Exporter renders every route of the site into static files.
type Exporter struct {
	handler   stdhttp.Handler
	posts     posts.Service
	site      *site.Site
	outputDir string
	static    fs.FS
	logger    *logrus.Entry
}

// NewExporter validates opts and constructs an Exporter.
func NewExporter(opts Options) (*Exporter, error) {
	if opts.Handler == nil {
		return nil, eris.New("http handler is required")
	}
	if opts.Posts == nil {
		return nil, eris.New("post service is required")
	}
	if opts.Site == nil {
		return nil, eris.New("site metadata is required")
	}

	outputDir := filepath.Clean(strings.TrimSpace(opts.OutputDir))
	if opts.OutputDir == "" || outputDir == "." || outputDir == string(filepath.Separator) {
		return nil, eris.Errorf("refusing to export into %q", opts.OutputDir)
	}
	if err := checkNotAncestor(outputDir); err != nil {
		return nil, err
	}

	return &Exporter{
		handler:   opts.Handler,
		posts:     opts.Posts,
		site:      opts.Site,
		outputDir: outputDir,
		static:    opts.Static,
		logger:    applog.Component(opts.Logger, "export"),
	}, nil
}

// Export cleans the output directory and writes every route and static asset into it.
func (e *Exporter) Export(ctx context.Context) (Report, error) {
	routes, err := e.Routes(ctx)
	if err != nil {
		return Report{}, err
	}

	if err := checkReplaceable(e.outputDir); err != nil {
		return Report{}, err
	}
	if err := os.RemoveAll(e.outputDir); err != nil {
		return Report{}, eris.Wrapf(err, "cleaning output directory: %s", e.outputDir)
	}
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return Report{}, eris.Wrapf(err, "creating output directory: %s", e.outputDir)
	}

	var report Report
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := e.writeRoute(ctx, route); err != nil {
			return report, err
		}
		report.Pages++
	}

	assets, err := e.copyStatic()
	if err != nil {
		return report, err
	}
	report.Assets = assets

	e.logger.WithFields(logrus.Fields{
		"pages":  report.Pages,
		"assets": report.Assets,
		"output": e.outputDir,
	}).Info("site exported")

	return report, nil
}

// Routes lists every page of the site: listings for all posts and each category,
// every post, the About page and the feed.
func (e *Exporter) Routes(ctx context.Context) ([]Route, error) {
	limit := e.site.PostsPerPage

	first, err := e.posts.GetPage(ctx, posts.PageRequest{Page: 1, Limit: limit})
	if err != nil {
		return nil, eris.Wrap(err, "loading first page")
	}

	routes := []Route{{URL: "/", File: "index.html"}}
	routes = append(routes, listingRoutes("", first.Total, limit)...)

	categories, err := e.categories(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		result, err := e.posts.GetPage(ctx, posts.PageRequest{Page: 1, Limit: limit, Category: category})
		if err != nil {
			return nil, eris.Wrapf(err, "loading category %s", category)
		}
		if err := posts.CheckPathSegment(category); err != nil {
			return nil, eris.Wrap(err, "exporting category")
		}
		routes = append(routes, Route{
			URL:  posts.CategoryURL("", category),
			File: path.Join("category", category, "index.html"),
		})
		routes = append(routes, listingRoutes(category, result.Total, limit)...)
	}

	for page := 1; page <= posts.TotalPages(first.Total, limit); page++ {
		result, err := e.posts.GetPage(ctx, posts.PageRequest{Page: page, Limit: limit})
		if err != nil {
			return nil, eris.Wrapf(err, "loading page %d", page)
		}
		for _, post := range result.Posts {
			if err := posts.CheckPathSegment(post.Slug); err != nil {
				return nil, eris.Wrap(err, "exporting post")
			}
			routes = append(routes, Route{
				URL:  posts.PostURL("", post.Slug),
				File: path.Join("posts", post.Slug, "index.html"),
			})
		}
	}

	routes = append(routes,
		Route{URL: "/about", File: "about/index.html"},
		Route{URL: "/feed.xml", File: "feed.xml"},
	)

	return routes, nil
}

// listingRoutes yields /page/{n} (or the category equivalent) for every page,
// and always page 1 so the first pagination link resolves on an empty site.
func listingRoutes(category string, total, limit int) []Route {
	pages := max(posts.TotalPages(total, limit), 1)

	routes := make([]Route, 0, pages)
	for page := 1; page <= pages; page++ {
		file := path.Join("page", strconv.Itoa(page), "index.html")
		if category != "" {
			file = path.Join("category", category, file)
		}
		routes = append(routes, Route{URL: posts.PageURL("", category, page), File: file})
	}
	return routes
}

func (e *Exporter) categories(ctx context.Context) ([]string, error) {
	names := e.site.Categories().Names()

	counts, err := e.posts.CategoryCounts(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "counting categories")
	}
	for name := range counts {
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names, nil
}

// checkNotAncestor refuses output directories that contain the working directory.
func checkNotAncestor(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return eris.Wrapf(err, "resolving output directory: %s", dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return eris.Wrap(err, "resolving working directory")
	}

	rel, err := filepath.Rel(abs, wd)
	if err != nil {
		return nil
	}
	if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return eris.Errorf("refusing to export into %s: it contains the working directory", dir)
	}
	return nil
}

// checkReplaceable allows cleaning a missing or empty directory, or one holding
// a previous export.
func checkReplaceable(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "reading output directory: %s", dir)
	}
	if len(entries) == 0 {
		return nil
	}

	if info, err := os.Stat(filepath.Join(dir, "index.html")); err == nil && info.Mode().IsRegular() {
		return nil
	}
	return eris.Errorf("refusing to clean %s: it is not empty and holds no previous export", dir)
}

func (e *Exporter) writeRoute(ctx context.Context, route Route) error {
	req := httptest.NewRequest(stdhttp.MethodGet, route.URL, nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	e.handler.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusOK {
		return eris.Errorf("rendering %s: status %d", route.URL, rec.Code)
	}

	target := filepath.Join(e.outputDir, filepath.FromSlash(route.File))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return eris.Wrapf(err, "creating directory for %s", route.File)
	}
	if err := os.WriteFile(target, rec.Body.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "writing %s", route.File)
	}

	e.logger.WithFields(logrus.Fields{"route": route.URL, "file": route.File}).Debug("page written")
	return nil
}

func (e *Exporter) copyStatic() (int, error) {
	if e.static == nil {
		return 0, nil
	}

	root := filepath.Join(e.outputDir, "static")
	copied := 0

	err := fs.WalkDir(e.static, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "walking static asset %s", name)
		}

		target := filepath.Join(root, filepath.FromSlash(name))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if err := copyFile(e.static, name, target); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, eris.Wrap(err, "copying static assets")
	}

	return copied, nil
}

func copyFile(fsys fs.FS, name, target string) error {
	src, err := fsys.Open(name)
	if err != nil {
		return eris.Wrapf(err, "opening %s", name)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return eris.Wrapf(err, "creating %s", target)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return eris.Wrapf(err, "copying %s", name)
	}
	return dst.Close()
}
