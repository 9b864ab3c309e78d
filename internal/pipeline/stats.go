package pipeline

import (
	"strings"

	"github.com/signalnine/algolens/pkg/complexity"
)

// SourceStats are the parse stage's line counts.
type SourceStats struct {
	Lines     int `json:"lines"`
	CodeLines int `json:"codeLines"`
}

// Stats counts total lines and lines that are neither blank nor comments.
// Python uses # comments; the other languages use // and /* */.
func Stats(code string, lang complexity.Language) SourceStats {
	if code == "" {
		return SourceStats{}
	}
	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	stats := SourceStats{Lines: len(lines)}
	inBlockComment := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if lang == complexity.Python {
			if strings.HasPrefix(trimmed, "#") {
				continue
			}
			stats.CodeLines++
			continue
		}
		if inBlockComment {
			if strings.Contains(trimmed, "*/") {
				inBlockComment = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "/*") {
			inBlockComment = !strings.Contains(trimmed, "*/")
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		stats.CodeLines++
	}
	return stats
}
