package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	applog "bitscycles/blog/internal/log"
)

// DefaultDebounce is how long the watcher waits for a burst of edits to settle.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Dirs     []string
	Debounce time.Duration
	Logger   *logrus.Logger
	// OnChange runs on the watcher goroutine, so reloads never overlap.
	OnChange func(ctx context.Context) error
}

// Watch observes Dirs recursively and calls OnChange once edits settle. It blocks
// until ctx is cancelled. Missing directories are skipped.
func Watch(ctx context.Context, opts WatchOptions) error {
	if opts.OnChange == nil {
		return eris.New("change handler is required")
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger := applog.Component(opts.Logger, "content.watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "creating file watcher")
	}
	defer watcher.Close()

	for _, dir := range opts.Dirs {
		addTree(watcher, dir, logger)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}

			logger.WithFields(logrus.Fields{"path": event.Name, "op": event.Op.String()}).Debug("change detected")

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				addTree(watcher, event.Name, logger)
			}

			timer.Reset(debounce)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(watchErr).Warn("watcher error")
		case <-timer.C:
			if err := opts.OnChange(ctx); err != nil {
				logger.WithError(err).Error("reloading content failed")
				continue
			}
			logger.Info("content reloaded")
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string, logger *logrus.Entry) {
	if !isDir(root) {
		logger.WithField("dir", root).Debug("directory not found, not watching")
		return
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.WithError(err).WithField("path", path).Warn("walking watched directory")
			return nil
		}
		if d.IsDir() {
			if addErr := watcher.Add(path); addErr != nil {
				logger.WithError(addErr).WithField("dir", path).Warn("watching directory failed")
			}
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).WithField("dir", root).Warn("walking watched directory")
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
