// Package relocate moves classified files into their category
// directories with collision-safe naming.
package relocate

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Mover relocates files into target directories. Failures are logged
// and reported through the boolean return; nothing escapes this
// boundary as a panic or error.
type Mover struct{}

// NewMover creates a file mover.
func NewMover() *Mover {
	return &Mover{}
}

// Move relocates source into targetDir, creating the directory tree if
// needed. newName overrides the destination file name when non-empty.
// Destination collisions are resolved by appending _1, _2, … before
// the extension; an existing file is never overwritten.
func (m *Mover) Move(source, targetDir, newName string) bool {
	_, ok := m.Place(source, targetDir, newName)
	return ok
}

// Copy behaves like Move but leaves the source file intact.
func (m *Mover) Copy(source, targetDir, newName string) bool {
	_, ok := m.PlaceCopy(source, targetDir, newName)
	return ok
}

// Place moves source into targetDir and returns the collision-resolved
// destination path the file ended up at.
func (m *Mover) Place(source, targetDir, newName string) (string, bool) {
	targetPath, ok := m.prepareTarget(source, targetDir, newName)
	if !ok {
		return "", false
	}

	if err := os.Rename(source, targetPath); err != nil {
		// Rename fails across filesystems; fall back to copy+delete.
		if copyErr := copyContents(source, targetPath); copyErr != nil {
			slog.Error("failed to move file",
				"source", source,
				"target", targetPath,
				"error", copyErr)
			return "", false
		}
		if rmErr := os.Remove(source); rmErr != nil {
			slog.Error("failed to remove source after copy",
				"source", source,
				"error", rmErr)
			return "", false
		}
	}

	slog.Info("moved file", "source", source, "target", targetPath)
	return targetPath, true
}

// PlaceCopy copies source into targetDir and returns the destination
// path of the duplicate.
func (m *Mover) PlaceCopy(source, targetDir, newName string) (string, bool) {
	targetPath, ok := m.prepareTarget(source, targetDir, newName)
	if !ok {
		return "", false
	}

	if err := copyContents(source, targetPath); err != nil {
		slog.Error("failed to copy file",
			"source", source,
			"target", targetPath,
			"error", err)
		return "", false
	}

	slog.Info("copied file", "source", source, "target", targetPath)
	return targetPath, true
}

// prepareTarget creates the target directory and resolves the final
// collision-free destination path.
func (m *Mover) prepareTarget(source, targetDir, newName string) (string, bool) {
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		slog.Error("failed to create target directory",
			"dir", targetDir,
			"error", err)
		return "", false
	}

	name := newName
	if name == "" {
		name = filepath.Base(source)
	}

	return resolveCollision(targetDir, name), true
}

// resolveCollision returns the first free path for name inside dir,
// suffixing _1, _2, … before the extension until no file exists there.
func resolveCollision(dir, name string) string {
	targetPath := filepath.Join(dir, name)
	if !exists(targetPath) {
		return targetPath
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
		if !exists(candidate) {
			slog.Debug("resolved name collision", "original", name, "resolved", filepath.Base(candidate))
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// copyContents duplicates a file preserving its mode and modification
// time, the way a copy-with-metadata is expected to behave.
func copyContents(source, target string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	// O_EXCL keeps the no-overwrite guarantee even if a file appears
	// between the collision check and the write.
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create target: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return fmt.Errorf("failed to copy contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close target: %w", err)
	}

	if err := os.Chtimes(target, info.ModTime(), info.ModTime()); err != nil {
		slog.Debug("failed to preserve timestamps", "target", target, "error", err)
	}
	return nil
}
