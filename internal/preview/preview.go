// Package preview performs best-effort text snippet extraction used to
// enrich file records before classification.
package preview

import (
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/qi-principal/Package-machine/internal/model"
)

// MaxPreviewChars bounds the extracted snippet length.
const MaxPreviewChars = 1000

// textExtensions is the fixed allow-list of text-like extensions.
// Non-text files are never opened.
var textExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".py": {}, ".java": {}, ".cpp": {},
	".h": {}, ".c": {}, ".js": {}, ".go": {}, ".html": {},
	".css": {}, ".xml": {}, ".json": {}, ".yaml": {}, ".yml": {},
	".ini": {}, ".cfg": {}, ".conf": {}, ".toml": {}, ".log": {},
	".sql": {}, ".sh": {}, ".bat": {}, ".ps1": {},
}

// IsTextExtension reports whether the extension is in the allow-list.
func IsTextExtension(ext string) bool {
	_, ok := textExtensions[strings.ToLower(ext)]
	return ok
}

// Enrich attaches content previews to text-like records in place.
// Extraction failures are silent; a preview is optional enrichment,
// not a required field.
func Enrich(records []model.FileRecord) []model.FileRecord {
	for i := range records {
		if !IsTextExtension(records[i].Extension) {
			continue
		}
		if snippet, ok := Extract(records[i].Path); ok {
			records[i].Preview = snippet
		}
	}
	return records
}

// Extract reads up to MaxPreviewChars characters of UTF-8 text from
// the file. A truncated snippet is cut back to the last whitespace and
// marked with an ellipsis. Any I/O or decode failure returns ok=false.
func Extract(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		slog.Debug("preview extraction failed", "path", path, "error", err)
		return "", false
	}
	defer func() { _ = f.Close() }()

	// Four bytes per rune covers the worst UTF-8 case.
	buf := make([]byte, MaxPreviewChars*4)
	n, err := f.Read(buf)
	if n == 0 {
		if err != nil {
			slog.Debug("preview extraction failed", "path", path, "error", err)
		}
		return "", false
	}
	chunk := buf[:n]

	// A read can split the final rune; trim back to a valid boundary
	// before judging the chunk as text.
	for len(chunk) > 0 && !utf8.Valid(chunk) {
		r, _ := utf8.DecodeLastRune(chunk)
		if r != utf8.RuneError {
			break
		}
		chunk = chunk[:len(chunk)-1]
	}
	if len(chunk) == 0 || !utf8.Valid(chunk) {
		return "", false
	}

	runes := []rune(string(chunk))
	if len(runes) <= MaxPreviewChars {
		return string(runes), true
	}

	runes = runes[:MaxPreviewChars]
	cut := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return string(runes[:cut]) + "...", true
}
