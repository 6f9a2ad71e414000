package site

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v2"

	"bitscycles/blog/internal/posts"
)

const (
	defaultTitle          = "Bits, Cycles, and Packets"
	defaultMetaTitle      = "Software Engineering Blog"
	defaultDescription    = "A blog about software engineering, programming, and technology"
	defaultAuthor         = "Abhi Jadhav"
	defaultProfileImage   = "/static/profile.jpg"
	defaultProfileSize    = 200
	defaultPostsPerPage   = 10
	defaultFeedItems      = 20
	defaultIntroParagraph = "I write about the software that sits between the bits, the cycles, and the packets."
)

// Site is the immutable metadata of the blog: chrome labels, About page text,
// the closed category set and the page size used by every listing.
type Site struct {
	Title           string
	MetaTitle       string
	Description     string
	Author          string
	URL             string
	ProfileImage    string
	ProfileSize     int
	IntroParagraphs []string
	PostsPerPage    int
	FeedItems       int

	categories posts.Categories
}

type fileFormat struct {
	Title        string   `yaml:"title"`
	MetaTitle    string   `yaml:"meta_title"`
	Description  string   `yaml:"description"`
	Author       string   `yaml:"author"`
	URL          string   `yaml:"url"`
	ProfileImage string   `yaml:"profile_image"`
	ProfileSize  int      `yaml:"profile_size"`
	Intro        []string `yaml:"intro"`
	Categories   []string `yaml:"categories"`
	PostsPerPage int      `yaml:"posts_per_page"`
	FeedItems    int      `yaml:"feed_items"`
}

// Default returns the built-in site metadata with no category restriction.
func Default() *Site {
	s, _ := build(fileFormat{})
	return s
}

// Load reads site metadata from path. A missing file yields Default.
func Load(path string) (*Site, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, eris.Wrapf(err, "reading site file: %s", path)
	}

	return Parse(raw)
}

// Parse decodes site metadata from YAML.
func Parse(raw []byte) (*Site, error) {
	var file fileFormat
	if err := yaml.UnmarshalStrict(raw, &file); err != nil {
		return nil, eris.Wrap(err, "decoding site file")
	}

	return build(file)
}

func build(file fileFormat) (*Site, error) {
	if file.PostsPerPage < 0 {
		return nil, eris.Wrapf(posts.ErrInvalidArgument, "posts_per_page must be positive, got %d", file.PostsPerPage)
	}
	if file.FeedItems < 0 {
		return nil, eris.Wrapf(posts.ErrInvalidArgument, "feed_items must be positive, got %d", file.FeedItems)
	}

	categories, err := posts.NewCategories(file.Categories...)
	if err != nil {
		return nil, eris.Wrap(err, "building category list")
	}

	intro := make([]string, 0, len(file.Intro))
	for _, paragraph := range file.Intro {
		if trimmed := strings.TrimSpace(paragraph); trimmed != "" {
			intro = append(intro, trimmed)
		}
	}
	if len(intro) == 0 {
		intro = []string{defaultIntroParagraph}
	}

	return &Site{
		Title:           orDefault(file.Title, defaultTitle),
		MetaTitle:       orDefault(file.MetaTitle, defaultMetaTitle),
		Description:     orDefault(file.Description, defaultDescription),
		Author:          orDefault(file.Author, defaultAuthor),
		URL:             strings.TrimRight(strings.TrimSpace(file.URL), "/"),
		ProfileImage:    orDefault(file.ProfileImage, defaultProfileImage),
		ProfileSize:     positiveOr(file.ProfileSize, defaultProfileSize),
		IntroParagraphs: intro,
		PostsPerPage:    positiveOr(file.PostsPerPage, defaultPostsPerPage),
		FeedItems:       positiveOr(file.FeedItems, defaultFeedItems),
		categories:      categories,
	}, nil
}

// Categories returns the configured category set.
func (s *Site) Categories() posts.Categories {
	return s.categories
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
