package fixer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanix-darker/revfix/internal/comments"
)

func TestBuildFixPromptContainsContext(t *testing.T) {
	prompt := buildFixPrompt(FixRequest{
		Path:    "pkg/server.go",
		Snippet: "port := 8080\n",
		Comment: "make the port configurable",
	})

	assert.Contains(t, prompt, "File: pkg/server.go")
	assert.Contains(t, prompt, "port := 8080")
	assert.Contains(t, prompt, "make the port configurable")
	assert.Contains(t, prompt, "CONFIDENCE:")
	assert.NotContains(t, prompt, "Diff context")
}

func TestBuildFixPromptIncludesDiffHunkWhenPresent(t *testing.T) {
	prompt := buildFixPrompt(FixRequest{
		Path:     "a.go",
		Snippet:  "x\n",
		Comment:  "c",
		DiffHunk: "@@ -1,2 +1,2 @@",
	})

	assert.Contains(t, prompt, "Diff context")
	assert.Contains(t, prompt, "@@ -1,2 +1,2 @@")
}

func TestBuildBatchPromptNumbersLinesAndListsComments(t *testing.T) {
	start := 1
	prompt := buildBatchPrompt(FileFixRequest{
		Path:    "a.go",
		Content: "first\nsecond\n",
		Comments: []comments.Comment{
			{Path: "a.go", Line: 2, StartLine: &start, Body: "merge these"},
			{Path: "a.go", Line: 1, Body: "rename"},
		},
	})

	assert.Contains(t, prompt, "1: first\n")
	assert.Contains(t, prompt, "2: second\n")
	assert.Contains(t, prompt, "[0] lines 1-2: merge these")
	assert.Contains(t, prompt, "[1] lines 1-1: rename")
	assert.Contains(t, prompt, "JSON array")
}
