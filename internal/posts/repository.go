package posts

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository is the read side of the content store plus the single bulk write
// the loader uses to publish a freshly loaded collection.
type Repository interface {
	ReplaceAll(ctx context.Context, posts []Post) error
	ListPosts(ctx context.Context) ([]Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	CountPosts(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

// GormRepository keeps the catalog in SQLite via Gorm.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

const insertBatchSize = 100

// ReplaceAll swaps the whole catalog for posts in one transaction, keeping their order.
func (r *GormRepository) ReplaceAll(ctx context.Context, posts []Post) error {
	records := make([]Record, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))

	for i, post := range posts {
		slug := strings.TrimSpace(post.Slug)
		if slug == "" {
			return eris.Errorf("post at position %d has no slug", i)
		}
		if _, dup := seen[slug]; dup {
			return eris.Errorf("duplicate post slug: %s", slug)
		}
		seen[slug] = struct{}{}

		post.Slug = slug
		records = append(records, newRecord(i, post))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Record{}).Error; err != nil {
			return eris.Wrap(err, "clearing catalog")
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
			return eris.Wrap(err, "inserting posts")
		}
		return nil
	})
	if err != nil {
		r.logError(logrus.Fields{"posts": len(records)}, err, "replacing catalog")
		return eris.Wrap(err, "replacing catalog")
	}

	return nil
}

// ListPosts returns every post in content store order.
func (r *GormRepository) ListPosts(ctx context.Context) ([]Post, error) {
	var records []Record

	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		r.logError(nil, err, "listing posts")
		return nil, eris.Wrap(err, "listing posts")
	}

	posts := make([]Post, 0, len(records))
	for _, record := range records {
		posts = append(posts, record.toPost())
	}

	return posts, nil
}

// GetBySlug returns the post for the provided slug or nil when not found.
func (r *GormRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, eris.New("slug is required")
	}

	var record Record
	err := r.db.WithContext(ctx).First(&record, "slug = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"slug": trimmed}, err, "fetching post by slug")
		return nil, eris.Wrapf(err, "fetching post by slug: %s", trimmed)
	}

	post := record.toPost()
	return &post, nil
}

// CountPosts returns the number of posts in the catalog.
func (r *GormRepository) CountPosts(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&Record{}).Count(&count).Error; err != nil {
		r.logError(nil, err, "counting posts")
		return 0, eris.Wrap(err, "counting posts")
	}

	return count, nil
}

// CountByCategory returns how many posts carry each category label.
func (r *GormRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}

	err := r.db.WithContext(ctx).
		Model(&Record{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		r.logError(nil, err, "counting posts by category")
		return nil, eris.Wrap(err, "counting posts by category")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}

	return counts, nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
