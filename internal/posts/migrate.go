package posts

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate applies the catalog schema using Gorm's AutoMigrate and logs progress.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "posts.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Debug("applying catalog schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("catalog schema migration failed")
		}
		return eris.Wrap(err, "auto migrating catalog schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Debug("catalog schema migration complete")
	}

	return nil
}
