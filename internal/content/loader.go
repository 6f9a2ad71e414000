package content

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	applog "bitscycles/blog/internal/log"
	"bitscycles/blog/internal/posts"
)

// PostsSubdir is where posts live below the content directory.
const PostsSubdir = "posts"

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type frontMatter struct {
	Title    string `yaml:"title" toml:"title"`
	Slug     string `yaml:"slug" toml:"slug"`
	Category string `yaml:"category" toml:"category"`
	Date     any    `yaml:"date" toml:"date"`
	Summary  string `yaml:"summary" toml:"summary"`
	Draft    bool   `yaml:"draft" toml:"draft"`
}

// Loader reads Markdown and MDX posts from disk into the order the rest of the
// site relies on: newest first, undated posts last, ties broken by slug.
type Loader struct {
	dir        string
	categories posts.Categories
	markdown   goldmark.Markdown
	logger     *logrus.Logger
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	ContentDir string
	Categories posts.Categories
	Logger     *logrus.Logger
}

// NewLoader constructs a Loader for the posts below opts.ContentDir.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	if strings.TrimSpace(opts.ContentDir) == "" {
		return nil, eris.New("content directory is required")
	}

	return &Loader{
		dir:        opts.ContentDir,
		categories: opts.Categories,
		markdown:   newMarkdown(),
		logger:     opts.Logger,
	}, nil
}

// Dir returns the content directory the loader reads from.
func (l *Loader) Dir() string {
	return l.dir
}

// Load parses every post file. A missing posts directory yields no posts.
func (l *Loader) Load(ctx context.Context) ([]posts.Post, error) {
	root := filepath.Join(l.dir, PostsSubdir)
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			l.log().WithField("dir", root).Warn("posts directory not found")
			return []posts.Post{}, nil
		}
		return nil, eris.Wrapf(err, "inspecting posts directory: %s", root)
	}

	var loaded []posts.Post
	origin := make(map[string]string)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return eris.Wrapf(walkErr, "walking %s", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isPostFile(d.Name()) {
			return nil
		}

		post, ok, err := l.loadFile(path)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if previous, dup := origin[post.Slug]; dup {
			return eris.Errorf("duplicate post slug %s in %s and %s", post.Slug, previous, post.BodyRef)
		}
		origin[post.Slug] = post.BodyRef
		loaded = append(loaded, post)
		return nil
	})
	if walkErr != nil {
		return nil, eris.Wrap(walkErr, "loading posts")
	}

	SortPosts(loaded)

	l.log().WithField("posts", len(loaded)).Debug("posts loaded")
	return loaded, nil
}

func (l *Loader) loadFile(path string) (posts.Post, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return posts.Post{}, false, eris.Wrapf(err, "reading %s", path)
	}

	rel, err := filepath.Rel(l.dir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return posts.Post{}, false, eris.Wrapf(err, "parsing front matter of %s", rel)
	}

	if meta.Draft {
		l.log().WithField("file", rel).Debug("skipping draft")
		return posts.Post{}, false, nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	slug := strings.TrimSpace(meta.Slug)
	if slug == "" {
		slug = base
	}
	if err := posts.CheckPathSegment(slug); err != nil {
		return posts.Post{}, false, eris.Wrapf(err, "invalid slug in %s", rel)
	}

	category := strings.TrimSpace(meta.Category)
	if category != "" {
		if err := posts.CheckPathSegment(category); err != nil {
			return posts.Post{}, false, eris.Wrapf(err, "invalid category in %s", rel)
		}
	}
	if !l.categories.Allows(category) {
		return posts.Post{}, false, eris.Wrapf(posts.ErrInvalidArgument, "unknown category %q in %s", category, rel)
	}

	publishedAt, err := parseDate(meta.Date)
	if err != nil {
		return posts.Post{}, false, eris.Wrapf(err, "parsing date of %s", rel)
	}

	rendered, err := renderMarkdown(l.markdown, body)
	if err != nil {
		return posts.Post{}, false, eris.Wrapf(err, "rendering %s", rel)
	}

	summary := strings.TrimSpace(meta.Summary)
	if summary == "" {
		summary, err = firstParagraph(rendered)
		if err != nil {
			return posts.Post{}, false, eris.Wrapf(err, "summarising %s", rel)
		}
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = titleFromName(base)
	}

	return posts.Post{
		Slug:        slug,
		Title:       title,
		Category:    category,
		PublishedAt: publishedAt,
		Summary:     summary,
		BodyRef:     rel,
		HTML:        rendered,
	}, true, nil
}

// SortPosts orders posts newest first with undated posts last and slug as tie-break.
func SortPosts(list []posts.Post) {
	slices.SortStableFunc(list, func(a, b posts.Post) int {
		switch {
		case a.Dated() && !b.Dated():
			return -1
		case !a.Dated() && b.Dated():
			return 1
		case a.PublishedAt.After(b.PublishedAt):
			return -1
		case a.PublishedAt.Before(b.PublishedAt):
			return 1
		}
		return strings.Compare(a.Slug, b.Slug)
	})
}

func parseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v.UTC(), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, nil
		}
		for _, layout := range dateFormats {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, eris.Errorf("unrecognised date %q", trimmed)
	default:
		return time.Time{}, eris.Errorf("unsupported date value %v", v)
	}
}

func titleFromName(name string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(spaced)
}

func isPostFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".mdx":
		return true
	default:
		return false
	}
}

func (l *Loader) log() *logrus.Entry {
	return applog.Component(l.logger, "content.loader")
}
