package relocate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestPlaceMovesFile(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "source", "a.txt")
	targetDir := filepath.Join(root, "target", "Documents")
	writeFile(t, source, "hello")

	mover := NewMover()
	finalPath, ok := mover.Place(source, targetDir, "")

	require.True(t, ok)
	assert.Equal(t, filepath.Join(targetDir, "a.txt"), finalPath)
	assert.NoFileExists(t, source)

	data, err := os.ReadFile(finalPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestPlaceResolvesCollisions(t *testing.T) {
	root := t.TempDir()
	targetDir := filepath.Join(root, "target")
	mover := NewMover()

	// Three files with the same name land as a.txt, a_1.txt, a_2.txt.
	want := []string{"a.txt", "a_1.txt", "a_2.txt"}
	for i, name := range want {
		source := filepath.Join(root, "source", "a.txt")
		writeFile(t, source, string(rune('x'+i)))

		finalPath, ok := mover.Place(source, targetDir, "")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(targetDir, name), finalPath)
	}

	// Nothing was overwritten along the way.
	data, err := os.ReadFile(filepath.Join(targetDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestPlaceSuffixGoesBeforeExtension(t *testing.T) {
	root := t.TempDir()
	targetDir := filepath.Join(root, "target")
	writeFile(t, filepath.Join(targetDir, "archive.tar.gz"), "old")

	source := filepath.Join(root, "archive.tar.gz")
	writeFile(t, source, "new")

	finalPath, ok := NewMover().Place(source, targetDir, "")
	require.True(t, ok)
	assert.Equal(t, "archive.tar_1.gz", filepath.Base(finalPath))
}

func TestPlaceRenamesWhenNewNameGiven(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "a.txt")
	writeFile(t, source, "hello")

	finalPath, ok := NewMover().Place(source, filepath.Join(root, "target"), "renamed.txt")
	require.True(t, ok)
	assert.Equal(t, "renamed.txt", filepath.Base(finalPath))
}

func TestPlaceMissingSource(t *testing.T) {
	root := t.TempDir()
	_, ok := NewMover().Place(filepath.Join(root, "ghost.txt"), filepath.Join(root, "target"), "")
	assert.False(t, ok)
}

func TestPlaceCopyKeepsSource(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "a.txt")
	targetDir := filepath.Join(root, "target")
	writeFile(t, source, "hello")

	finalPath, ok := NewMover().PlaceCopy(source, targetDir, "")
	require.True(t, ok)

	assert.FileExists(t, source)
	data, err := os.ReadFile(finalPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRemoveEmptyDirs(t *testing.T) {
	root := t.TempDir()

	// Nested empty chain, an occupied directory, and a directory whose
	// only child is itself empty.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "kept"), 0750))
	writeFile(t, filepath.Join(root, "kept", "file.txt"), "x")

	removed := RemoveEmptyDirs(root)
	assert.Equal(t, 3, removed)

	assert.NoDirExists(t, filepath.Join(root, "a"))
	assert.DirExists(t, filepath.Join(root, "kept"))
	// The root itself is never removed.
	assert.DirExists(t, root)
}

func TestRemoveEmptyDirsNothingToDo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "file.txt"), "x")
	assert.Equal(t, 0, RemoveEmptyDirs(root))
}
