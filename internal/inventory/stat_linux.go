//go:build linux

package inventory

import (
	"os"
	"syscall"
	"time"
)

// createdTime extracts the inode change timestamp, the closest thing
// Linux exposes to a creation time.
func createdTime(fi os.FileInfo) time.Time {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return fi.ModTime()
}
