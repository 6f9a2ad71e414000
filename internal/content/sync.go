package content

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	applog "bitscycles/blog/internal/log"
	"bitscycles/blog/internal/posts"
)

// Source yields the ordered post collection.
type Source interface {
	Load(ctx context.Context) ([]posts.Post, error)
}

// Sync loads every post from source and publishes them to repo in one replacement.
// On failure the catalog keeps its previous contents.
func Sync(ctx context.Context, source Source, repo posts.Repository, logger *logrus.Logger) (int, error) {
	if source == nil {
		return 0, eris.New("content source is required")
	}
	if repo == nil {
		return 0, eris.New("post repository is required")
	}

	loaded, err := source.Load(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "loading content")
	}

	if err := repo.ReplaceAll(ctx, loaded); err != nil {
		return 0, eris.Wrap(err, "publishing content")
	}

	applog.Component(logger, "content.sync").WithField("posts", len(loaded)).Info("catalog synchronised")
	return len(loaded), nil
}
