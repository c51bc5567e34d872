package fixer

import (
	"fmt"
	"strings"
)

const fixSystemPrompt = "You output only the replacement code, nothing else. No markdown, no explanation."

const batchSystemPrompt = "You output only a JSON array, nothing else. No markdown, no explanation."

// buildFixPrompt builds the per-comment prompt. The model is asked for
// the replacement snippet plus a trailing CONFIDENCE line that
// parseSuggestion strips back out.
func buildFixPrompt(req FixRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a code review fix agent. A reviewer left a comment on this code. Your job is to return ONLY the fixed code that should replace the given snippet: no explanation, no markdown, no quotes.

File: %s

Code snippet (exact lines from the file):
`+"```"+`
%s
`+"```"+`

Reviewer comment:
%s
`, req.Path, req.Snippet, req.Comment)

	if req.DiffHunk != "" {
		fmt.Fprintf(&b, `

Diff context (for reference):
`+"```"+`
%s
`+"```"+`
`, req.DiffHunk)
	}

	b.WriteString(`
Return ONLY the replacement code (the fixed lines). Preserve indentation and style. Do not include the triple backticks or any commentary. If no change is needed, return the exact same snippet.
After the code, on a final separate line, write exactly: CONFIDENCE: low, CONFIDENCE: medium or CONFIDENCE: high, reflecting how sure you are the replacement is correct.
`)

	return b.String()
}

// buildBatchPrompt builds the per-file prompt for batch mode. The file
// content is numbered so the model can reference 1-based line ranges.
func buildBatchPrompt(req FileFixRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a code review fix agent. A reviewer left several comments on one file. Return fixes for as many comments as you can.

File: %s

File content (1-based line numbers):
`+"```"+`
%s`+"```"+`

Reviewer comments:
`, req.Path, numberLines(req.Content))

	for i, c := range req.Comments {
		start, end := c.Range()
		fmt.Fprintf(&b, "[%d] lines %d-%d: %s\n", i, start, end, c.Body)
	}

	b.WriteString(`
Respond with ONLY a JSON array, one object per comment you can fix:
[{"comment_index": 0, "start_line": 1, "end_line": 2, "replacement": "the fixed lines", "confidence": "low|medium|high", "explanation": "one sentence"}]
Line numbers are 1-based and inclusive and refer to the file content above. Preserve indentation and style in "replacement". Omit comments you cannot fix. Do not wrap the JSON in markdown fences.
`)

	return b.String()
}

func numberLines(content string) string {
	var b strings.Builder
	lineNo := 1
	rest := content
	for rest != "" {
		line := rest
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i+1]
			rest = rest[i+1:]
		} else {
			rest = ""
		}
		fmt.Fprintf(&b, "%d: %s", lineNo, line)
		lineNo++
	}
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}
