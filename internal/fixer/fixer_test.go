package fixer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanix-darker/revfix/internal/comments"
)

// fakeSuggester returns canned responses and records requests.
type fakeSuggester struct {
	suggestion *Suggestion
	err        error

	batchFixes []BatchFix
	batchErr   error

	fixRequests  []FixRequest
	fileRequests []FileFixRequest
}

func (f *fakeSuggester) SuggestFix(ctx context.Context, req FixRequest) (*Suggestion, error) {
	f.fixRequests = append(f.fixRequests, req)
	return f.suggestion, f.err
}

func (f *fakeSuggester) SuggestFileFixes(ctx context.Context, req FileFixRequest) ([]BatchFix, error) {
	f.fileRequests = append(f.fileRequests, req)
	return f.batchFixes, f.batchErr
}

func writeRepoFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunAppliesFix(t *testing.T) {
	root := t.TempDir()
	path := writeRepoFile(t, root, "a.go", "one\ntwo\nthree\n")

	s := &fakeSuggester{suggestion: &Suggestion{
		Replacement: "TWO\n", Confidence: ConfidenceHigh,
	}}
	f := New(Config{RepoRoot: root, MinConfidence: ConfidenceMedium}, s)

	result, err := f.Run(context.Background(), []comments.Comment{
		{Path: "a.go", Line: 2, Body: "shout it"},
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, StatusApplied, result.Outcomes[0].Status)
	assert.Equal(t, 1, result.Applied())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\nthree\n", string(got))

	require.Len(t, s.fixRequests, 1)
	assert.Equal(t, "two\n", s.fixRequests[0].Snippet)
}

func TestRunLowConfidenceLeavesFileUntouched(t *testing.T) {
	root := t.TempDir()
	original := "one\ntwo\n"
	path := writeRepoFile(t, root, "a.go", original)

	s := &fakeSuggester{suggestion: &Suggestion{
		Replacement: "ONE\n", Confidence: ConfidenceLow,
	}}
	f := New(Config{RepoRoot: root, MinConfidence: ConfidenceMedium}, s)

	result, err := f.Run(context.Background(), []comments.Comment{
		{Path: "a.go", Line: 1, Body: "improve"},
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, StatusSkipped, result.Outcomes[0].Status)
	assert.Equal(t, 0, result.Applied())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(got), "file bytes must be unchanged")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	original := "one\n"
	path := writeRepoFile(t, root, "a.go", original)

	s := &fakeSuggester{suggestion: &Suggestion{
		Replacement: "ONE\n", Confidence: ConfidenceHigh,
	}}
	f := New(Config{RepoRoot: root, DryRun: true, MinConfidence: ConfidenceLow}, s)

	result, err := f.Run(context.Background(), []comments.Comment{
		{Path: "a.go", Line: 1, Body: "improve"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusProposed, result.Outcomes[0].Status)
	assert.Equal(t, 1, result.Applied())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(got))
}

func TestRunSkipsNonActionableAndMissingFiles(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "blank.go", "   \n\t\n")

	s := &fakeSuggester{}
	f := New(Config{RepoRoot: root}, s)

	result, err := f.Run(context.Background(), []comments.Comment{
		{Path: "", Line: 1, Body: "no path"},
		{Path: "a.go", Line: 1, Body: "   "},
		{Path: "ghost.go", Line: 1, Body: "missing file"},
		{Path: "blank.go", Line: 1, Body: "whitespace only"},
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 4)
	assert.Equal(t, StatusNotActionable, result.Outcomes[0].Status)
	assert.Equal(t, StatusNotActionable, result.Outcomes[1].Status)
	assert.Equal(t, StatusNoFile, result.Outcomes[2].Status)
	assert.Equal(t, StatusNoContent, result.Outcomes[3].Status)
	assert.Empty(t, s.fixRequests, "the model must not be called for skipped comments")
}

func TestRunModelFailureContinues(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "a.go", "one\n")
	writeRepoFile(t, root, "b.go", "two\n")

	calls := 0
	s := &sequencedSuggester{fn: func(req FixRequest) (*Suggestion, error) {
		calls++
		if req.Path == "a.go" {
			return nil, errors.New("rate limited")
		}
		return &Suggestion{Replacement: "TWO\n", Confidence: ConfidenceHigh}, nil
	}}
	f := New(Config{RepoRoot: root, MinConfidence: ConfidenceLow}, s)

	result, err := f.Run(context.Background(), []comments.Comment{
		{Path: "a.go", Line: 1, Body: "x"},
		{Path: "b.go", Line: 1, Body: "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, StatusNoFix, result.Outcomes[0].Status)
	assert.Equal(t, StatusApplied, result.Outcomes[1].Status)
}

// sequencedSuggester delegates per-comment calls to a function.
type sequencedSuggester struct {
	fn func(FixRequest) (*Suggestion, error)
}

func (s *sequencedSuggester) SuggestFix(ctx context.Context, req FixRequest) (*Suggestion, error) {
	return s.fn(req)
}

func (s *sequencedSuggester) SuggestFileFixes(ctx context.Context, req FileFixRequest) ([]BatchFix, error) {
	return nil, nil
}

func TestRunBatchOneCallPerFile(t *testing.T) {
	root := t.TempDir()
	path := writeRepoFile(t, root, "a.go", "one\ntwo\nthree\n")

	s := &fakeSuggester{batchFixes: []BatchFix{
		{CommentIndex: 0, StartLine: 1, EndLine: 1, Replacement: "ONE\n", Confidence: ConfidenceHigh},
		{CommentIndex: 1, StartLine: 3, EndLine: 3, Replacement: "THREE\n", Confidence: ConfidenceHigh},
	}}
	f := New(Config{RepoRoot: root, Batch: true, MinConfidence: ConfidenceMedium}, s)

	result, err := f.Run(context.Background(), []comments.Comment{
		{Path: "a.go", Line: 1, Body: "shout one"},
		{Path: "a.go", Line: 3, Body: "shout three"},
	})
	require.NoError(t, err)
	require.Len(t, s.fileRequests, 1, "one model call for the whole file")
	assert.Equal(t, "one\ntwo\nthree\n", s.fileRequests[0].Content)
	assert.Equal(t, 2, result.Applied())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ONE\ntwo\nTHREE\n", string(got))
}

func TestRunBatchRereadsFileBetweenFixes(t *testing.T) {
	root := t.TempDir()
	path := writeRepoFile(t, root, "a.go", "one\ntwo\n")

	// The first fix grows the file by one line; the second fix's range
	// refers to the original coordinates and lands on the shifted content.
	s := &fakeSuggester{batchFixes: []BatchFix{
		{CommentIndex: 0, StartLine: 1, EndLine: 1, Replacement: "ONE\nEXTRA\n", Confidence: ConfidenceHigh},
		{CommentIndex: 1, StartLine: 2, EndLine: 2, Replacement: "X\n", Confidence: ConfidenceHigh},
	}}
	f := New(Config{RepoRoot: root, Batch: true, MinConfidence: ConfidenceLow}, s)

	_, err := f.Run(context.Background(), []comments.Comment{
		{Path: "a.go", Line: 1, Body: "a"},
		{Path: "a.go", Line: 2, Body: "b"},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	// Line 2 of the post-edit file is EXTRA, not two.
	assert.Equal(t, "ONE\nX\ntwo\n", string(got))
}

func TestRunBatchFallsBackToCommentRange(t *testing.T) {
	root := t.TempDir()
	path := writeRepoFile(t, root, "a.go", "one\ntwo\n")

	s := &fakeSuggester{batchFixes: []BatchFix{
		{CommentIndex: 0, Replacement: "TWO\n", Confidence: ConfidenceHigh},
	}}
	f := New(Config{RepoRoot: root, Batch: true, MinConfidence: ConfidenceLow}, s)

	_, err := f.Run(context.Background(), []comments.Comment{
		{Path: "a.go", Line: 2, Body: "shout"},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\n", string(got))
}

func TestRunBatchUnansweredCommentIsNoFix(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "a.go", "one\ntwo\n")

	s := &fakeSuggester{batchFixes: []BatchFix{
		{CommentIndex: 1, StartLine: 2, EndLine: 2, Replacement: "TWO\n", Confidence: ConfidenceHigh},
	}}
	f := New(Config{RepoRoot: root, Batch: true, MinConfidence: ConfidenceLow}, s)

	result, err := f.Run(context.Background(), []comments.Comment{
		{Path: "a.go", Line: 1, Body: "a"},
		{Path: "a.go", Line: 2, Body: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusNoFix, result.Outcomes[0].Status)
	assert.Equal(t, StatusApplied, result.Outcomes[1].Status)
}

func TestSummaryLine(t *testing.T) {
	r := &RunResult{Outcomes: []Outcome{
		{Status: StatusApplied},
		{Status: StatusSkipped},
		{Status: StatusNoFix},
	}}
	assert.Equal(t, "Processed 3 comment(s), applied 1 fix(es).", Summary(r))
}

func TestReportContainsFixes(t *testing.T) {
	r := &RunResult{DryRun: true, Outcomes: []Outcome{
		{
			Path: "a.go", Start: 1, End: 2, Status: StatusProposed,
			Suggestion: &Suggestion{Replacement: "x := 1", Confidence: ConfidenceHigh, Explanation: "simplify"},
		},
		{Path: "b.go", Status: StatusNoFile},
	}}

	report := Report(r)
	assert.Contains(t, report, "a.go:1-2")
	assert.Contains(t, report, "x := 1")
	assert.Contains(t, report, "confidence: high")
	assert.Contains(t, report, "simplify")
	assert.NotContains(t, report, "b.go")
	assert.Contains(t, report, "Processed 2 comment(s), applied 1 fix(es).")
}
