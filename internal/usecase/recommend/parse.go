package recommend

import (
	"encoding/json"
	"strings"
)

type suggestion struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Subject       string `json:"subject"`
	Justification string `json:"justification"`
}

// parseSuggestions reads the JSON object between the first '{' and the last '}'
// and falls back to line scanning when that fails.
func parseSuggestions(text string) []suggestion {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end > start {
		var payload struct {
			Recommendations []suggestion `json:"recommendations"`
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err == nil {
			return payload.Recommendations
		}
	}
	return scanSuggestions(text)
}

// scanSuggestions extracts "Field: value" lines. A title line starts a new suggestion.
func scanSuggestions(text string) []suggestion {
	var (
		out     []suggestion
		current *suggestion
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "título") || strings.Contains(lower, "title"):
			if current != nil {
				out = append(out, *current)
			}
			current = &suggestion{Title: valueOf(line)}
		case current == nil:
		case strings.Contains(lower, "autor") || strings.Contains(lower, "author"):
			current.Author = valueOf(line)
		case strings.Contains(lower, "assunto") || strings.Contains(lower, "subject"):
			current.Subject = valueOf(line)
		case strings.Contains(lower, "justificativa") || strings.Contains(lower, "justification"):
			current.Justification = valueOf(line)
		}
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}

func valueOf(line string) string {
	if _, after, ok := strings.Cut(line, ":"); ok {
		line = after
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "-*"))
}
