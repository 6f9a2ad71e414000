package http

import (
	"embed"
	"errors"
	"io/fs"
	stdhttp "net/http"
	"os"
	"slices"
	"strings"
)

//go:embed static
var embeddedStatic embed.FS

// StaticFS returns the site's assets: files under dir take precedence over the
// built-in stylesheet. An empty dir serves only the built-in assets.
func StaticFS(dir string) fs.FS {
	builtin, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic(err)
	}
	if strings.TrimSpace(dir) == "" {
		return builtin
	}
	return overlayFS{primary: os.DirFS(dir), fallback: builtin}
}

type overlayFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	file, err := o.primary.Open(name)
	if err == nil {
		return file, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.fallback.Open(name)
}

// ReadDir merges both layers so a partial asset directory still exports the built-ins.
func (o overlayFS) ReadDir(name string) ([]fs.DirEntry, error) {
	primary, primaryErr := fs.ReadDir(o.primary, name)
	fallback, fallbackErr := fs.ReadDir(o.fallback, name)
	if primaryErr != nil && fallbackErr != nil {
		return nil, primaryErr
	}

	seen := make(map[string]struct{}, len(primary))
	merged := make([]fs.DirEntry, 0, len(primary)+len(fallback))
	for _, entry := range primary {
		seen[entry.Name()] = struct{}{}
		merged = append(merged, entry)
	}
	for _, entry := range fallback {
		if _, ok := seen[entry.Name()]; !ok {
			merged = append(merged, entry)
		}
	}

	slices.SortFunc(merged, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return merged, nil
}

func (s *Server) staticHandler() stdhttp.Handler {
	files := stdhttp.StripPrefix("/static/", stdhttp.FileServerFS(StaticFS(s.staticDir)))

	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			stdhttp.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
