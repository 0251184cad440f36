package repair

import (
	"regexp"
	"strings"
)

// stripFence removes a markdown code fence wrapper. For a ```json fence it
// extracts the innermost object between the first { after the fence and the
// last } before the closing fence; a bare ``` fence is unwrapped the same
// way after skipping a possible language identifier line.
func stripFence(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		inner := text[idx+len("```json"):]
		if end := strings.LastIndex(inner, "```"); end >= 0 {
			inner = inner[:end]
		}
		return innerObject(inner)
	}

	if strings.HasPrefix(text, "```") {
		inner := strings.TrimPrefix(text, "```")
		if nl := strings.Index(inner, "\n"); nl >= 0 {
			firstLine := inner[:nl]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				inner = inner[nl+1:]
			}
		}
		if end := strings.LastIndex(inner, "```"); end >= 0 {
			inner = inner[:end]
		}
		return innerObject(inner)
	}

	return text
}

// trimToObject narrows text to the substring from the first { to the last }.
func trimToObject(text string) string {
	return innerObject(text)
}

// collapseDoubledQuotes fixes "" sequences produced when the model emits
// already-escaped quotes. Runs only after plain parsing failed, so valid
// empty-string values are never touched.
func collapseDoubledQuotes(text string) string {
	return strings.ReplaceAll(text, `""`, `"`)
}

// keywordSiblingRe matches the recurring malformation where the model closes
// expected_answer's string too early and emits the keyword sentence as a
// spurious sibling string, with or without a premature object close:
//
//	"expected_answer": "text", "\n\nKeywords: a, b" }
//	"expected_answer": "text"}, "\n\nKeywords: a, b" }
var keywordSiblingRe = regexp.MustCompile(
	`("expected_answer"\s*:\s*"(?:[^"\\]|\\.)*)"\s*\}?\s*,\s*"((?:[^"\\]|\\.)*)"\s*\}`)

// reattachKeywordLine folds the spurious sibling string back onto the end of
// expected_answer's value and drops the extra key.
func reattachKeywordLine(text string) string {
	return keywordSiblingRe.ReplaceAllString(text, `${1}${2}"}`)
}

// innerObject returns the trimmed substring from the first { to the last },
// or the trimmed input when no balanced-looking object is present.
func innerObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(text[start : end+1])
	}
	return strings.TrimSpace(text)
}
