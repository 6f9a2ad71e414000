package posts

import (
	"net/url"
	"strconv"
)

// PageLink is one numbered entry in the pagination controls.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pagination carries what the renderer needs to draw previous/next controls.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
	Links      []PageLink
}

// NewPagination derives navigation for req given the true total of the queried set.
// TotalPages is never below one so an empty listing still renders "page 1 of 1".
func NewPagination(req PageRequest, total int, basePath string) Pagination {
	totalPages := max(TotalPages(total, req.Limit), 1)

	p := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    req.Page > 1,
		HasNext:    req.Page < totalPages,
	}

	if p.HasPrev {
		p.PrevURL = PageURL(basePath, req.Category, min(req.Page-1, totalPages))
	}
	if p.HasNext {
		p.NextURL = PageURL(basePath, req.Category, req.Page+1)
	}

	p.Links = make([]PageLink, 0, totalPages)
	for n := 1; n <= totalPages; n++ {
		p.Links = append(p.Links, PageLink{
			Number:  n,
			URL:     PageURL(basePath, req.Category, n),
			Current: n == req.Page,
		})
	}

	return p
}

// PageURL returns /page/{n} or /category/{name}/page/{n} under basePath.
func PageURL(basePath, category string, page int) string {
	if category == "" {
		return basePath + "/page/" + strconv.Itoa(page)
	}
	return CategoryURL(basePath, category) + "/page/" + strconv.Itoa(page)
}

// CategoryURL returns the landing URL of a category listing.
func CategoryURL(basePath, category string) string {
	return basePath + "/category/" + url.PathEscape(category)
}

// PostURL returns the permalink of a post.
func PostURL(basePath, slug string) string {
	return basePath + "/posts/" + url.PathEscape(slug)
}
