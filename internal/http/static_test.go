package http

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestStaticFSOverlaysSiteAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "profile.jpg"), []byte{0xff, 0xd8}, 0o644); err != nil {
		t.Fatalf("writing asset: %v", err)
	}

	var names []string
	err := fs.WalkDir(StaticFS(dir), ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir returned error: %v", err)
	}

	if !slices.Equal(names, []string{"profile.jpg", "site.css"}) {
		t.Fatalf("expected merged assets, got %v", names)
	}
}

func TestStaticFSPrefersSiteOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "site.css"), []byte("body{color:red}"), 0o644); err != nil {
		t.Fatalf("writing asset: %v", err)
	}

	data, err := fs.ReadFile(StaticFS(dir), "site.css")
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if string(data) != "body{color:red}" {
		t.Fatalf("expected override stylesheet, got %q", data)
	}
}

func TestStaticFSWithoutDirectoryServesBuiltins(t *testing.T) {
	t.Parallel()

	if _, err := fs.Stat(StaticFS(""), "site.css"); err != nil {
		t.Fatalf("expected built-in stylesheet: %v", err)
	}
	if _, err := fs.Stat(StaticFS(filepath.Join(t.TempDir(), "missing")), "site.css"); err != nil {
		t.Fatalf("expected built-in stylesheet when directory is missing: %v", err)
	}
}
