package inventory

import (
	"log/slog"
	"strings"

	"github.com/qi-principal/Package-machine/internal/model"
)

// Filter admits files by extension. An empty allow-list admits
// everything.
type Filter struct {
	allowed map[string]struct{}
}

// NewFilter builds a filter from the configured extension list.
// Extensions are matched case-insensitively; a missing leading dot is
// tolerated.
func NewFilter(extensions []string) *Filter {
	f := &Filter{allowed: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		f.AddExtension(ext)
	}
	return f
}

// AddExtension adds one extension to the allow-list.
func (f *Filter) AddExtension(ext string) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f.allowed[ext] = struct{}{}
}

// RemoveExtension drops one extension from the allow-list.
func (f *Filter) RemoveExtension(ext string) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	delete(f.allowed, ext)
}

// Allowed reports whether a record passes the filter.
func (f *Filter) Allowed(record model.FileRecord) bool {
	if len(f.allowed) == 0 {
		return true
	}
	_, ok := f.allowed[record.Extension]
	return ok
}

// Apply returns the subset of records admitted by the filter.
func (f *Filter) Apply(records []model.FileRecord) []model.FileRecord {
	if len(f.allowed) == 0 {
		return records
	}
	out := make([]model.FileRecord, 0, len(records))
	for _, r := range records {
		if f.Allowed(r) {
			out = append(out, r)
		}
	}
	slog.Debug("extension filter applied", "in", len(records), "out", len(out))
	return out
}

// Extensions returns the current allow-list.
func (f *Filter) Extensions() []string {
	out := make([]string, 0, len(f.allowed))
	for ext := range f.allowed {
		out = append(out, ext)
	}
	return out
}
