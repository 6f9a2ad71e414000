package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gorilla/feeds"

	"bitscycles/blog/internal/posts"
	"bitscycles/blog/internal/site"
)

const feedContentType = "application/rss+xml; charset=utf-8"

type feedResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func (s *Server) registerFeedRoute() {
	huma.Get(s.api, "/feed.xml", s.feedHandler, func(op *huma.Operation) {
		op.Summary = "RSS feed of recent posts"
		op.Responses = map[string]*huma.Response{
			"200": {
				Description: stdhttp.StatusText(stdhttp.StatusOK),
				Content: map[string]*huma.MediaType{
					feedContentType: {Schema: &huma.Schema{Type: "string"}},
				},
			},
		}
	})
}

func (s *Server) feedHandler(ctx context.Context, _ *struct{}) (*feedResponse, error) {
	recent, err := s.posts.Recent(ctx, s.site.FeedItems)
	if err != nil {
		s.recordError(ctx, err, "loading recent posts for feed", nil)
		return nil, huma.Error500InternalServerError("loading feed")
	}

	rss, err := BuildFeed(s.site, s.basePath, recent).ToRss()
	if err != nil {
		s.recordError(ctx, err, "encoding feed", nil)
		return nil, huma.Error500InternalServerError("encoding feed")
	}

	return &feedResponse{
		Status:      stdhttp.StatusOK,
		ContentType: feedContentType,
		Body:        []byte(rss),
	}, nil
}

// BuildFeed assembles the RSS feed for the given posts. Links are absolute when
// the site URL is configured.
func BuildFeed(meta *site.Site, basePath string, recent []posts.Post) *feeds.Feed {
	root := meta.URL + basePath

	feed := &feeds.Feed{
		Title:       meta.Title,
		Link:        &feeds.Link{Href: root + "/"},
		Description: meta.Description,
		Author:      &feeds.Author{Name: meta.Author},
	}

	var newest time.Time
	for _, post := range recent {
		link := meta.URL + posts.PostURL(basePath, post.Slug)
		feed.Add(&feeds.Item{
			Id:          link,
			Title:       post.Title,
			Link:        &feeds.Link{Href: link},
			Description: post.Summary,
			Created:     post.PublishedAt,
		})
		if post.PublishedAt.After(newest) {
			newest = post.PublishedAt
		}
	}
	feed.Created = newest

	return feed
}
