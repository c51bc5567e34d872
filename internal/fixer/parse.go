package fixer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	openFencePattern  = regexp.MustCompile("^```[a-zA-Z0-9_-]*\n?")
	closeFencePattern = regexp.MustCompile("\n?```\\s*$")

	confidencePattern  = regexp.MustCompile(`(?i)^\s*confidence\s*:\s*(\w+)\s*$`)
	explanationPattern = regexp.MustCompile(`(?i)^\s*explanation\s*:\s*(.*)$`)
)

// parseSuggestion turns raw model output into a Suggestion. Trailing
// CONFIDENCE:/EXPLANATION: lines are peeled off the end first, then any
// markdown code fence around the remainder is stripped. Returns nil when
// nothing usable remains.
func parseSuggestion(raw string) *Suggestion {
	text := strings.TrimRight(raw, " \t\r\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sug := &Suggestion{Confidence: ConfidenceLow}

	// Metadata lines only ever appear at the very end of the response.
	for {
		idx := strings.LastIndexByte(text, '\n')
		last := text[idx+1:]
		if m := confidencePattern.FindStringSubmatch(last); m != nil {
			sug.Confidence = ParseConfidence(m[1])
		} else if m := explanationPattern.FindStringSubmatch(last); m != nil {
			sug.Explanation = strings.TrimSpace(m[1])
		} else {
			break
		}
		if idx < 0 {
			text = ""
			break
		}
		text = strings.TrimRight(text[:idx], " \t\r\n")
	}

	sug.Replacement = stripCodeFence(text)
	if strings.TrimSpace(sug.Replacement) == "" {
		return nil
	}
	return sug
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = openFencePattern.ReplaceAllString(trimmed, "")
	trimmed = closeFencePattern.ReplaceAllString(trimmed, "")
	return trimmed
}

// parseBatchResponse parses a batch-mode model response into BatchFix
// entries. The payload is located tolerantly (fences stripped, first [
// to last ] sliced) and each entry accepts several key spellings.
// Entries without replacement text are dropped.
func parseBatchResponse(raw string) []BatchFix {
	payload := extractJSONPayload(raw)
	if payload == "" {
		return nil
	}

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		// Single-object responses happen; wrap and retry.
		var single map[string]interface{}
		if err := json.Unmarshal([]byte(payload), &single); err != nil {
			return nil
		}
		items = []map[string]interface{}{single}
	}

	out := make([]BatchFix, 0, len(items))
	for _, m := range items {
		replacement := firstString(m, "replacement", "code", "fix", "new_code")
		if strings.TrimSpace(replacement) == "" {
			continue
		}
		out = append(out, BatchFix{
			CommentIndex: firstInt(m, "comment_index", "index", "comment"),
			StartLine:    firstInt(m, "start_line", "line_start", "start"),
			EndLine:      firstInt(m, "end_line", "line_end", "end"),
			Replacement:  replacement,
			Confidence:   ParseConfidence(firstString(m, "confidence")),
			Explanation:  strings.TrimSpace(firstString(m, "explanation", "reason")),
		})
	}
	return out
}

// extractJSONPayload locates the JSON document inside a model response
// that may carry fences or surrounding prose.
func extractJSONPayload(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 3 && strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
			last := len(lines) - 1
			if strings.TrimSpace(lines[last]) == "```" {
				trimmed = strings.TrimSpace(strings.Join(lines[1:last], "\n"))
			}
		}
	}
	if trimmed == "" {
		return ""
	}

	switch trimmed[0] {
	case '[':
		if end := strings.LastIndex(trimmed, "]"); end > 0 {
			return strings.TrimSpace(trimmed[:end+1])
		}
	case '{':
		if end := strings.LastIndex(trimmed, "}"); end > 0 {
			return strings.TrimSpace(trimmed[:end+1])
		}
	default:
		start := strings.Index(trimmed, "[")
		end := strings.LastIndex(trimmed, "]")
		if start >= 0 && end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
		start = strings.Index(trimmed, "{")
		end = strings.LastIndex(trimmed, "}")
		if start >= 0 && end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return ""
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func firstInt(m map[string]interface{}, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t)
		case int:
			return t
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n
			}
		}
	}
	return 0
}
