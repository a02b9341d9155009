//go:build !linux

package inventory

import (
	"os"
	"time"
)

// createdTime falls back to the modification time on platforms where
// stat does not expose a usable creation timestamp.
func createdTime(fi os.FileInfo) time.Time {
	return fi.ModTime()
}
