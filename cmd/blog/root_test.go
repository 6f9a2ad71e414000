package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildCommandExportsSite(t *testing.T) {
	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	outputDir := filepath.Join(root, "out")

	if err := os.MkdirAll(filepath.Join(contentDir, "posts"), 0o755); err != nil {
		t.Fatalf("creating content dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(contentDir, "posts", "hello.md"), []byte("Hello.\n"), 0o644); err != nil {
		t.Fatalf("writing post: %v", err)
	}

	t.Setenv("CONTENT_DIR", contentDir)
	t.Setenv("STATIC_DIR", filepath.Join(root, "static"))
	t.Setenv("SITE_FILE", filepath.Join(root, "site.yaml"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SENTRY_DSN", "")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"build", "--output", outputDir, "--base-path", "/a1pha.github.io"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("build command returned error: %v", err)
	}

	for _, file := range []string{"index.html", "page/1/index.html", "posts/hello/index.html", "about/index.html", "feed.xml"} {
		if _, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(file))); err != nil {
			t.Fatalf("expected %s: %v", file, err)
		}
	}
}

func TestRootCommandRejectsMissingConfigFile(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"build", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
