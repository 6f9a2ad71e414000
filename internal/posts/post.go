package posts

import "time"

// Post is a single published entry as supplied by the content store. Posts are
// immutable once loaded; every method in this package returns copies.
type Post struct {
	Slug        string
	Title       string
	Category    string
	PublishedAt time.Time
	Summary     string
	BodyRef     string
	HTML        string
}

// Dated reports whether the post carries a publish date.
func (p Post) Dated() bool {
	return !p.PublishedAt.IsZero()
}
