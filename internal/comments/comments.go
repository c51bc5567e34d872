// Package comments models GitHub pull-request review comments as they
// come out of the GitHub API, and routes them to the files they target.
package comments

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Comment is one review comment. Line numbers are 1-based; StartLine is
// a pointer because GitHub omits it for single-line comments.
type Comment struct {
	Path         string `json:"path"`
	Line         int    `json:"line"`
	OriginalLine int    `json:"original_line"`
	StartLine    *int   `json:"start_line"`
	Body         string `json:"body"`
	DiffHunk     string `json:"diff_hunk"`
}

// Anchor is the comment's primary line: line, falling back to
// original_line when the comment is outdated.
func (c Comment) Anchor() int {
	if c.Line > 0 {
		return c.Line
	}
	return c.OriginalLine
}

// Range is the effective 1-based inclusive range the comment targets.
// start_line defaults to the anchor line; a reversed pair is swapped.
func (c Comment) Range() (start, end int) {
	end = c.Anchor()
	start = end
	if c.StartLine != nil {
		start = *c.StartLine
	}
	if start > end {
		start, end = end, start
	}
	return start, end
}

// Actionable reports whether the comment can be turned into a fix: it
// needs a path and a non-empty body.
func (c Comment) Actionable() bool {
	return c.Path != "" && strings.TrimSpace(c.Body) != ""
}

// Load reads review comments from a JSON file. The document may be a
// single comment object or an array of them.
func Load(path string) ([]Comment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read comments file: %w", err)
	}
	list, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

// Parse decodes a JSON document holding either one comment or an array.
func Parse(raw []byte) ([]Comment, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, nil
	}

	var list []Comment
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, err
		}
	} else {
		var single Comment
		if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
			return nil, err
		}
		list = []Comment{single}
	}

	for i := range list {
		list[i].Body = strings.TrimSpace(list[i].Body)
		list[i].DiffHunk = strings.TrimSpace(list[i].DiffHunk)
	}
	return list, nil
}

// GroupByFile buckets comments by path, preserving each file's relative
// comment order. Comments without a path are dropped. Map iteration
// order is not meaningful; sort the keys when order matters.
func GroupByFile(list []Comment) map[string][]Comment {
	groups := make(map[string][]Comment)
	for _, c := range list {
		if c.Path == "" {
			continue
		}
		groups[c.Path] = append(groups[c.Path], c)
	}
	return groups
}
