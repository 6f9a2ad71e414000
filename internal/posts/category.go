package posts

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Categories is the closed set of labels posts may be grouped under. It is built
// once at start-up and never mutated afterwards.
type Categories struct {
	names []string
	index map[string]struct{}
}

// NewCategories validates and freezes the given labels, preserving their order.
func NewCategories(names ...string) (Categories, error) {
	c := Categories{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return Categories{}, eris.Wrap(ErrInvalidArgument, "category name is empty")
		}
		if err := CheckPathSegment(name); err != nil {
			return Categories{}, eris.Wrapf(err, "category %s", name)
		}
		if _, exists := c.index[name]; exists {
			return Categories{}, eris.Wrapf(ErrInvalidArgument, "duplicate category %s", name)
		}
		c.index[name] = struct{}{}
		c.names = append(c.names, name)
	}

	return c, nil
}

// Names returns a copy of the configured labels in configuration order.
func (c Categories) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of configured labels.
func (c Categories) Len() int {
	return len(c.names)
}

// Contains reports whether name is one of the configured labels.
func (c Categories) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Allows reports whether a post may use the label. An empty label marks an
// uncategorized post and is always allowed; an empty set allows any label.
func (c Categories) Allows(name string) bool {
	return name == "" || len(c.names) == 0 || c.Contains(name)
}

// CheckPathSegment rejects names that cannot stand alone as one URL path segment
// or output directory.
func CheckPathSegment(name string) error {
	switch {
	case name == "." || name == "..":
		return eris.Wrapf(ErrInvalidArgument, "%q is a relative path element", name)
	case strings.ContainsAny(name, `/\`):
		return eris.Wrapf(ErrInvalidArgument, "%q contains a path separator", name)
	}
	return nil
}
