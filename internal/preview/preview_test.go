package preview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qi-principal/Package-machine/internal/model"
)

func TestIsTextExtension(t *testing.T) {
	assert.True(t, IsTextExtension(".txt"))
	assert.True(t, IsTextExtension(".MD"), "extension matching ignores case")
	assert.True(t, IsTextExtension(".yaml"))
	assert.False(t, IsTextExtension(".exe"))
	assert.False(t, IsTextExtension(".jpg"))
	assert.False(t, IsTextExtension(""))
}

func TestExtractShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("a short note"), 0600))

	snippet, ok := Extract(path)
	require.True(t, ok)
	assert.Equal(t, "a short note", snippet)
}

func TestExtractTruncatesAtWhitespace(t *testing.T) {
	// Words of 9 characters plus a space, so the cut lands mid-word and
	// must back off to the previous space.
	content := strings.Repeat("abcdefghi ", 200)
	path := filepath.Join(t.TempDir(), "long.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	snippet, ok := Extract(path)
	require.True(t, ok)

	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.LessOrEqual(t, len([]rune(snippet)), MaxPreviewChars+3)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(snippet, "..."), " "),
		"the trailing whitespace itself is cut")
}

func TestExtractMultibyteBoundary(t *testing.T) {
	// Enough multibyte text to exceed the preview limit without ever
	// splitting a rune in the output.
	content := strings.Repeat("héllo wörld ", 200)
	path := filepath.Join(t.TempDir(), "unicode.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	snippet, ok := Extract(path)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(snippet, "..."))
	for _, r := range snippet {
		assert.NotEqual(t, '�', r, "no replacement characters in the snippet")
	}
}

func TestExtractBinaryContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x01, 0xc3}, 0600))

	_, ok := Extract(path)
	assert.False(t, ok)
}

func TestExtractEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	_, ok := Extract(path)
	assert.False(t, ok)
}

func TestExtractMissingFile(t *testing.T) {
	_, ok := Extract(filepath.Join(t.TempDir(), "ghost.txt"))
	assert.False(t, ok)
}

func TestEnrich(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "readme.md")
	binPath := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(textPath, []byte("# Title"), 0600))
	require.NoError(t, os.WriteFile(binPath, []byte{0xff, 0xd8, 0xff}, 0600))

	records := []model.FileRecord{
		{Path: textPath, Name: "readme.md", Extension: ".md"},
		{Path: binPath, Name: "photo.jpg", Extension: ".jpg"},
	}

	enriched := Enrich(records)
	require.Len(t, enriched, 2)
	assert.Equal(t, "# Title", enriched[0].Preview)
	assert.True(t, enriched[0].HasPreview())
	assert.Empty(t, enriched[1].Preview, "non-text files are never opened")
}

func TestEnrichToleratesUnreadableFiles(t *testing.T) {
	records := []model.FileRecord{
		{Path: filepath.Join(t.TempDir(), "gone.txt"), Name: "gone.txt", Extension: ".txt"},
	}

	enriched := Enrich(records)
	require.Len(t, enriched, 1)
	assert.Empty(t, enriched[0].Preview)
}
