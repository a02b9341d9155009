package classify

import (
	"fmt"
	"strings"

	"github.com/qi-principal/Package-machine/internal/model"
)

// maxPromptPreviewChars bounds how much of a file's content preview is
// included in the request payload.
const maxPromptPreviewChars = 200

// BuildPrompt assembles the natural-language classification request
// for one batch. It lists each file's name, human-readable size,
// modification time and preview, lists the existing categories
// verbatim so the service is biased toward reuse, and states the
// required JSON response shape. The builder performs no I/O.
func BuildPrompt(batch []model.FileRecord, categories []string) string {
	var sb strings.Builder

	sb.WriteString("Please classify the following files into appropriate folders.\n")
	sb.WriteString("Classification policy:\n")
	sb.WriteString("1. Classify primarily by the file's actual content and purpose, not its format\n")
	sb.WriteString("2. Files of the same format may belong to different categories; analyze the name and content meaning\n")
	sb.WriteString("3. Keep the granularity moderate, neither too broad nor too fine\n")
	sb.WriteString("4. Use meaningful folder names\n")
	sb.WriteString("5. Explain the classification reason in detail, focusing on content-based evidence\n")
	sb.WriteString("6. Prefer reusing the existing categories; create a new one only when none fits\n")
	sb.WriteString("7. Group files with similar content into the same folder\n\n")

	sb.WriteString("Required response format:\n")
	sb.WriteString("{\n")
	sb.WriteString("    \"example.docx\": {\n")
	sb.WriteString("        \"target_folder\": \"Product Documents\",\n")
	sb.WriteString("        \"reason\": \"Based on the file name and content this is a product-related technical document\"\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n\n")

	sb.WriteString("Existing categories:\n")
	if len(categories) == 0 {
		sb.WriteString("(none yet)\n")
	} else {
		for _, cat := range categories {
			sb.WriteString("- ")
			sb.WriteString(cat)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nFiles to classify:\n")
	for i, record := range batch {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString("File name: ")
		sb.WriteString(record.Name)
		sb.WriteString("\n")
		if record.HasPreview() {
			sb.WriteString("Content preview: ")
			sb.WriteString(truncatePreview(record.Preview, maxPromptPreviewChars))
			sb.WriteString("\n")
		}
		sb.WriteString("Size: ")
		sb.WriteString(FormatSize(record.Size))
		sb.WriteString("\n")
		sb.WriteString("Modified: ")
		sb.WriteString(record.ModifiedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatSize renders a byte count with 1024-based units.
func FormatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f TB", value)
}

// truncatePreview bounds the preview text and marks the cut.
func truncatePreview(preview string, limit int) string {
	runes := []rune(preview)
	if len(runes) <= limit {
		return preview
	}
	return string(runes[:limit]) + "..."
}
