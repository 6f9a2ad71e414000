package posts

import "time"

// Record is the catalog row for a post. Position stores the content store's
// ordering so listing never re-sorts.
type Record struct {
	ID          uint   `gorm:"primaryKey"`
	Position    int    `gorm:"not null;index:idx_posts_position"`
	Slug        string `gorm:"size:255;uniqueIndex:idx_posts_slug;not null"`
	Title       string `gorm:"size:512;not null"`
	Category    string `gorm:"size:128;index:idx_posts_category"`
	PublishedAt time.Time
	Summary     string `gorm:"type:text"`
	BodyRef     string `gorm:"size:1024"`
	HTML        string `gorm:"type:text;not null"`
}

// TableName defines the table name for the Record model.
func (Record) TableName() string {
	return "posts"
}

func newRecord(position int, post Post) Record {
	return Record{
		Position:    position,
		Slug:        post.Slug,
		Title:       post.Title,
		Category:    post.Category,
		PublishedAt: post.PublishedAt,
		Summary:     post.Summary,
		BodyRef:     post.BodyRef,
		HTML:        post.HTML,
	}
}

func (r Record) toPost() Post {
	return Post{
		Slug:        r.Slug,
		Title:       r.Title,
		Category:    r.Category,
		PublishedAt: r.PublishedAt,
		Summary:     r.Summary,
		BodyRef:     r.BodyRef,
		HTML:        r.HTML,
	}
}
