package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qi-principal/Package-machine/internal/common"
)

// responseEntry is one per-file entry in the remote response, keyed by
// file name.
type responseEntry struct {
	TargetFolder string `json:"target_folder"`
	Reason       string `json:"reason"`
}

// parseResponse extracts the JSON object from the raw response text.
// The object is the substring from the first '{' to the last '}'; if
// no such substring exists or it does not parse, the raw text is
// surfaced inside a ResponseFormatError. Malformed JSON is never
// repaired or partially accepted.
func parseResponse(raw string) (map[string]responseEntry, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &common.ResponseFormatError{
			Raw: raw,
			Err: fmt.Errorf("no JSON object found in response"),
		}
	}

	var entries map[string]responseEntry
	if err := json.Unmarshal([]byte(raw[start:end+1]), &entries); err != nil {
		return nil, &common.ResponseFormatError{Raw: raw, Err: err}
	}

	return entries, nil
}
