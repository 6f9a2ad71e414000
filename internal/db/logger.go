package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// NewLogger routes Gorm's query log through logrus. Missing rows are expected
// lookups in the catalog and are not reported.
func NewLogger(l *logrus.Logger) logger.Interface {
	if l == nil {
		return logger.Default.LogMode(logger.Silent)
	}

	level := logger.Warn
	if l.IsLevelEnabled(logrus.TraceLevel) {
		level = logger.Info
	}

	return logger.New(l.WithField("component", "db"), logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
