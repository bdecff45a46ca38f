package assistant

import "strings"

// cleanResponse strips markdown scaffolding the model tends to emit so the
// client gets displayable plain text: code fences, bold/italic asterisks,
// and heading markers.
func cleanResponse(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		stripped := strings.TrimLeft(trimmed, "#")
		if stripped != trimmed {
			lines[i] = strings.TrimLeft(stripped, " ")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractJSON pulls the first JSON object out of a model reply that may be
// wrapped in fences or prose.
func extractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
