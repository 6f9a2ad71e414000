package posts

import "github.com/rotisserie/eris"

// ErrInvalidArgument marks caller contract violations such as a non-positive page or limit.
var ErrInvalidArgument = eris.New("invalid argument")

// PageRequest selects one page of posts, optionally restricted to a category.
type PageRequest struct {
	Page     int
	Limit    int
	Category string
}

// PageResult holds the posts for the requested page and the size of the queried set.
type PageResult struct {
	Posts []Post
	Total int
}

// Validate rejects requests with a page or limit below one.
func (r PageRequest) Validate() error {
	if r.Page < 1 {
		return eris.Wrapf(ErrInvalidArgument, "page must be at least 1, got %d", r.Page)
	}
	if r.Limit < 1 {
		return eris.Wrapf(ErrInvalidArgument, "limit must be at least 1, got %d", r.Limit)
	}
	return nil
}

// Paginate returns the contiguous slice of all for the requested page. When a
// category is set, all is first narrowed to matching posts in their original
// order and Total counts only those. Pages past the end yield an empty slice
// with the correct Total. all is never modified.
func Paginate(all []Post, req PageRequest) (PageResult, error) {
	if err := req.Validate(); err != nil {
		return PageResult{}, err
	}

	matching := all
	if req.Category != "" {
		matching = make([]Post, 0, len(all))
		for _, post := range all {
			if post.Category == req.Category {
				matching = append(matching, post)
			}
		}
	}

	total := len(matching)
	if total == 0 || req.Page > TotalPages(total, req.Limit) {
		return PageResult{Posts: []Post{}, Total: total}, nil
	}

	start := (req.Page - 1) * req.Limit
	end := start + min(req.Limit, total-start)

	page := make([]Post, end-start)
	copy(page, matching[start:end])

	return PageResult{Posts: page, Total: total}, nil
}

// TotalPages returns ceil(total/limit), or zero when there is nothing to show.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total-1)/limit + 1
}
