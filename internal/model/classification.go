package model

const (
	// FolderUnclassified is the fallback target folder for files the
	// remote classifier did not cover.
	FolderUnclassified = "Unclassified"

	// ReasonUnclassified is the fixed reason attached to synthesized
	// fallback results.
	ReasonUnclassified = "no suitable category could be determined"
)

// ClassificationResult is the outcome of classifying one file.
// Exactly one result exists per input file path in a completed run.
type ClassificationResult struct {
	Folder     string
	Reason     string
	Confidence float64
}

// Unclassified returns the synthesized fallback result used when the
// remote response omits a file.
func Unclassified() ClassificationResult {
	return ClassificationResult{
		Folder:     FolderUnclassified,
		Reason:     ReasonUnclassified,
		Confidence: 0.0,
	}
}
