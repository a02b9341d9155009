package classify

import (
	"strings"
	"unicode/utf8"
)

// Marker phrases used by the confidence heuristic. The remote service
// is not required to emit a numeric confidence, so a proxy is derived
// from how well-justified the reason text is.
var (
	causalMarkers = []string{"because", "based on", "since", "due to"}

	characteristicMarkers = []string{
		"characteristic", "feature", "type", "format", "content",
	}

	certaintyMarkers = []string{
		"certain", "clear", "definite", "clearly", "obviously",
	}
)

// ScoreReason computes the confidence proxy for a classification
// reason. Scores start at 0.5 and accumulate for length, causal
// language, references to file characteristics, and expressed
// certainty; the result is clamped to [0, 1].
func ScoreReason(reason string) float64 {
	confidence := 0.5

	if reason == "" {
		return confidence
	}

	lower := strings.ToLower(reason)

	if utf8.RuneCountInString(reason) > 50 {
		confidence += 0.2
	}
	if containsAny(lower, causalMarkers) {
		confidence += 0.1
	}
	if containsAny(lower, characteristicMarkers) {
		confidence += 0.1
	}
	if containsAny(lower, certaintyMarkers) {
		confidence += 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
