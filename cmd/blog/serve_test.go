package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"bitscycles/blog/internal/content"
	applog "bitscycles/blog/internal/log"
)

func TestStopWatcherWaitsForReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	started := make(chan struct{}, 1)
	var finished atomic.Bool

	stop := startWatcher(context.Background(), content.WatchOptions{
		Dirs:     []string{dir},
		Debounce: 20 * time.Millisecond,
		Logger:   applog.Discard(),
		OnChange: func(context.Context) error {
			select {
			case started <- struct{}{}:
			default:
			}
			time.Sleep(200 * time.Millisecond)
			finished.Store(true)
			return nil
		},
	})

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "post.md"), []byte("edit"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		stop()
		t.Fatalf("expected reload to start")
	}

	stop()
	if !finished.Load() {
		t.Fatalf("expected stop to wait for the in-flight reload")
	}
}

func TestStopWatcherWithoutChanges(t *testing.T) {
	t.Parallel()

	stop := startWatcher(context.Background(), content.WatchOptions{
		Dirs:     []string{t.TempDir()},
		Logger:   applog.Discard(),
		OnChange: func(context.Context) error { return nil },
	})

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected stop to return once the watcher exits")
	}
}
