package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"bitscycles/blog/internal/db"
	"bitscycles/blog/internal/http/templates"
	"bitscycles/blog/internal/posts"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	dateLayout           = "January 2, 2006"
	isoDateLayout        = "2006-01-02"
	errorFallbackMessage = "We couldn't process your request right now."
)

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type pageInput struct {
	Page string `path:"page"`
}

type categoryInput struct {
	Category string `path:"category"`
}

type categoryPageInput struct {
	Category string `path:"category"`
	Page     string `path:"page"`
}

type postInput struct {
	Slug string `path:"slug"`
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func (s *Server) registerListRoutes() {
	huma.Get(s.api, "/", s.homeHandler, htmlOperation("Latest posts", stdhttp.StatusInternalServerError))

	huma.Get(s.api, "/page/{page}", s.pageHandler, htmlOperation(
		"Numbered page of posts",
		stdhttp.StatusBadRequest,
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/category/{category}", s.categoryHandler, htmlOperation(
		"Latest posts in a category",
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/category/{category}/page/{page}", s.categoryPageHandler, htmlOperation(
		"Numbered page of posts in a category",
		stdhttp.StatusBadRequest,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerPostRoute() {
	huma.Get(s.api, "/posts/{slug}", s.postHandler, htmlOperation(
		"Single post",
		stdhttp.StatusBadRequest,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerAboutRoute() {
	huma.Get(s.api, "/about", s.aboutHandler, htmlOperation("About the author", stdhttp.StatusInternalServerError))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) homeHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	return s.renderListing(ctx, posts.PageRequest{Page: 1, Limit: s.site.PostsPerPage}, "")
}

func (s *Server) pageHandler(ctx context.Context, input *pageInput) (*htmlResponse, error) {
	page, err := parsePage(input.Page)
	if err != nil {
		return s.renderFailure(ctx, err, "parsing page number", logrus.Fields{"page": input.Page})
	}
	return s.renderListing(ctx, posts.PageRequest{Page: page, Limit: s.site.PostsPerPage}, "")
}

func (s *Server) categoryHandler(ctx context.Context, input *categoryInput) (*htmlResponse, error) {
	category := strings.TrimSpace(input.Category)
	req := posts.PageRequest{Page: 1, Limit: s.site.PostsPerPage, Category: category}
	return s.renderListing(ctx, req, category)
}

func (s *Server) categoryPageHandler(ctx context.Context, input *categoryPageInput) (*htmlResponse, error) {
	category := strings.TrimSpace(input.Category)
	page, err := parsePage(input.Page)
	if err != nil {
		return s.renderFailure(ctx, err, "parsing page number", logrus.Fields{"page": input.Page, "category": category})
	}
	req := posts.PageRequest{Page: page, Limit: s.site.PostsPerPage, Category: category}
	return s.renderListing(ctx, req, category)
}

func (s *Server) renderListing(ctx context.Context, req posts.PageRequest, heading string) (*htmlResponse, error) {
	fields := logrus.Fields{"page": req.Page, "category": req.Category}

	result, err := s.posts.GetPage(ctx, req)
	if err != nil {
		return s.renderFailure(ctx, err, "loading page of posts", fields)
	}

	categories, err := s.categoryLinks(ctx, req.Category)
	if err != nil {
		return s.renderFailure(ctx, err, "loading categories", fields)
	}

	views := make([]templates.PostSummaryView, 0, len(result.Posts))
	for _, post := range result.Posts {
		views = append(views, s.summaryView(post))
	}

	empty := "No posts yet."
	if req.Category != "" {
		empty = "No posts in this category yet."
	}
	if result.Total > 0 && len(result.Posts) == 0 {
		empty = "There are no posts on this page."
	}

	layout := s.layout(heading)
	if req.Page > 1 {
		layout.PageTitle = strings.TrimSpace(fmt.Sprintf("%s Page %d", heading, req.Page))
	}

	data := templates.ListPageData{
		Layout:       layout,
		Heading:      heading,
		Posts:        views,
		Pagination:   paginationView(posts.NewPagination(req, result.Total, s.basePath)),
		Categories:   categories,
		EmptyMessage: empty,
	}

	return s.renderPage(ctx, templates.ListPage(data), "listing", fields)
}

func (s *Server) postHandler(ctx context.Context, input *postInput) (*htmlResponse, error) {
	slug := strings.TrimSpace(input.Slug)

	post, err := s.posts.GetPost(ctx, slug)
	if err != nil {
		return s.renderFailure(ctx, err, "loading post", logrus.Fields{"slug": slug})
	}

	data := templates.PostPageData{
		Layout:   s.layout(post.Title),
		Title:    post.Title,
		Category: post.Category,
		HTML:     post.HTML,
		BackURL:  s.basePath + "/",
	}
	if post.Category != "" {
		data.CategoryURL = posts.CategoryURL(s.basePath, post.Category)
	}
	if post.Dated() {
		data.Date = post.PublishedAt.Format(dateLayout)
		data.DateISO = post.PublishedAt.Format(isoDateLayout)
	}

	return s.renderPage(ctx, templates.PostPage(data), "post", logrus.Fields{"slug": slug})
}

func (s *Server) aboutHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	data := templates.AboutPageData{
		Layout:       s.layout("About"),
		Author:       s.site.Author,
		ProfileImage: s.assetURL(s.site.ProfileImage),
		ProfileSize:  s.site.ProfileSize,
		Intro:        s.site.IntroParagraphs,
	}

	return s.renderPage(ctx, templates.AboutPage(data), "about page", nil)
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{Status: stdhttp.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"

	sqlDB, err := db.SQLDB(s.db)
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.recordError(ctx, err, "pinging catalog database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	return resp, nil
}

func (s *Server) layout(pageTitle string) templates.LayoutData {
	return templates.LayoutData{
		PageTitle:   pageTitle,
		SiteTitle:   s.site.Title,
		MetaTitle:   s.site.MetaTitle,
		Description: s.site.Description,
		BasePath:    s.basePath,
	}
}

func (s *Server) summaryView(post posts.Post) templates.PostSummaryView {
	view := templates.PostSummaryView{
		Title:    post.Title,
		URL:      posts.PostURL(s.basePath, post.Slug),
		Category: post.Category,
		Summary:  post.Summary,
	}
	if post.Category != "" {
		view.CategoryURL = posts.CategoryURL(s.basePath, post.Category)
	}
	if post.Dated() {
		view.Date = post.PublishedAt.Format(dateLayout)
		view.DateISO = post.PublishedAt.Format(isoDateLayout)
	}
	return view
}

// categoryLinks lists the configured categories, or every category in use when
// none are configured.
func (s *Server) categoryLinks(ctx context.Context, active string) ([]templates.CategoryLinkView, error) {
	counts, err := s.posts.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}

	names := s.site.Categories().Names()
	if len(names) == 0 {
		for name := range counts {
			if name != "" {
				names = append(names, name)
			}
		}
		slices.Sort(names)
	}

	links := make([]templates.CategoryLinkView, 0, len(names))
	for _, name := range names {
		links = append(links, templates.CategoryLinkView{
			Name:   name,
			URL:    posts.CategoryURL(s.basePath, name),
			Count:  counts[name],
			Active: name == active,
		})
	}
	return links, nil
}

func (s *Server) assetURL(path string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	return s.basePath + "/" + strings.TrimLeft(path, "/")
}

func paginationView(p posts.Pagination) templates.PaginationView {
	links := make([]templates.PageLinkView, 0, len(p.Links))
	for _, link := range p.Links {
		links = append(links, templates.PageLinkView{
			Number:  link.Number,
			URL:     link.URL,
			Current: link.Current,
		})
	}

	return templates.PaginationView{
		Page:       p.Page,
		TotalPages: p.TotalPages,
		PrevURL:    p.PrevURL,
		NextURL:    p.NextURL,
		Links:      links,
	}
}

func parsePage(raw string) (int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, eris.Wrapf(posts.ErrInvalidArgument, "page %q is not a number", raw)
	}
	if page < 1 {
		return 0, eris.Wrapf(posts.ErrInvalidArgument, "page %d must be at least 1", page)
	}
	return page, nil
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func classifyError(err error) (int, string) {
	switch {
	case err == nil:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	case eris.Is(err, posts.ErrInvalidArgument):
		return stdhttp.StatusBadRequest, "That page number isn't valid. Pages start at 1."
	case eris.Is(err, posts.ErrPostNotFound):
		return stdhttp.StatusNotFound, "We couldn't find that post."
	default:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}
}

func (s *Server) renderFailure(ctx context.Context, err error, message string, fields logrus.Fields) (*htmlResponse, error) {
	status, userMessage := classifyError(err)
	if status >= stdhttp.StatusInternalServerError {
		s.recordError(ctx, err, message, fields)
	} else if s.logger != nil {
		s.logger.WithError(err).WithFields(fields).Info(message)
	}
	return s.renderErrorResponse(ctx, status, userMessage)
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) (*htmlResponse, error) {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	template := templates.ErrorPage(templates.ErrorPageData{
		Layout:      s.layout(label),
		StatusLabel: label,
		Message:     message,
	})

	body, err := renderComponent(ctx, template)
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := []byte(fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", label, message))
		return newHTMLResponse(status, fallback), nil
	}

	return newHTMLResponse(status, body), nil
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
