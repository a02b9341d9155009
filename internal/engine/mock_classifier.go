package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/qi-principal/Package-machine/internal/model"
)

// MockClassifier is a deterministic test implementation of the
// Classifier interface. It classifies by extension and records every
// call it receives.
type MockClassifier struct {
	// FailWith, when set, is returned from every Classify call.
	FailWith error
	// Omit lists file names the mock leaves out of its response,
	// simulating a remote service that skipped them.
	Omit map[string]bool

	calls []MockCall
	mu    sync.Mutex
}

// MockCall records details of one classification request.
type MockCall struct {
	Categories []string
	BatchSize  int
}

// NewMockClassifier creates a mock classifier.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{Omit: make(map[string]bool)}
}

// Classify returns extension-derived folders with fixed reasons.
func (m *MockClassifier) Classify(_ context.Context, batch []model.FileRecord, categories []string) (map[string]model.ClassificationResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{
		BatchSize:  len(batch),
		Categories: append([]string(nil), categories...),
	})
	m.mu.Unlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}

	results := make(map[string]model.ClassificationResult, len(batch))
	for _, record := range batch {
		if m.Omit[record.Name] {
			continue
		}
		results[record.Path] = model.ClassificationResult{
			Folder:     folderForExtension(record.Extension),
			Reason:     "grouped by the dominant content type of the file",
			Confidence: 0.8,
		}
	}
	return results, nil
}

// Calls returns a copy of the recorded calls.
func (m *MockClassifier) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

func folderForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".doc", ".docx", ".pdf", ".txt", ".md":
		return "Documents"
	case ".jpg", ".jpeg", ".png", ".gif":
		return "Images"
	case ".mp3", ".wav":
		return "Music"
	case ".mp4", ".mkv":
		return "Videos"
	case ".zip", ".rar", ".tar":
		return "Archives"
	default:
		return "Miscellaneous"
	}
}
