// Package model defines the core data types shared across the application.
package model

import "time"

// FileRecord describes a single regular file discovered during an
// inventory scan. Records live for the duration of one run and are
// never persisted.
type FileRecord struct {
	ModifiedAt time.Time
	CreatedAt  time.Time
	Path       string
	Name       string
	Extension  string
	Preview    string
	Size       int64
}

// HasPreview reports whether a content preview was extracted.
func (r *FileRecord) HasPreview() bool {
	return r.Preview != ""
}
