// Package fixer orchestrates the fix loop: for each review comment it
// extracts the referenced snippet, asks a model for a replacement, and
// splices the replacement back into the file when the suggestion's
// confidence clears the configured threshold.
package fixer

import (
	"context"
	"strings"

	"github.com/sanix-darker/revfix/internal/comments"
)

// Confidence is the ordered label a model attaches to a suggestion:
// low < medium < high.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// ParseConfidence parses a confidence label leniently. Anything that is
// not recognizably "medium" or "high" is treated as low.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh
	case "medium", "med":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// Suggestion is a model-produced fix for a single snippet.
type Suggestion struct {
	// Replacement is the text that should replace the snippet. Never empty
	// for a returned suggestion; "no fix" is expressed as a nil *Suggestion.
	Replacement string

	Confidence  Confidence
	Explanation string
}

// BatchFix is one entry of a model's per-file batch response. Line
// numbers are 1-based inclusive and refer to the file content the model
// was shown; a zero StartLine means the model gave no range and the
// comment's own range should be used.
type BatchFix struct {
	CommentIndex int
	StartLine    int
	EndLine      int
	Replacement  string
	Confidence   Confidence
	Explanation  string
}

// FixRequest carries everything the model needs to fix one snippet.
type FixRequest struct {
	Path     string
	Snippet  string
	Comment  string
	DiffHunk string
}

// FileFixRequest carries a whole file and all of its review comments for
// a single batch call.
type FileFixRequest struct {
	Path     string
	Content  string
	Comments []comments.Comment
}

// Suggester is the model boundary. SuggestFix returning (nil, nil) means
// the model produced no usable fix; errors are transport or provider
// failures. Both are treated as "no fix" by the orchestrator.
type Suggester interface {
	SuggestFix(ctx context.Context, req FixRequest) (*Suggestion, error)
	SuggestFileFixes(ctx context.Context, req FileFixRequest) ([]BatchFix, error)
}

// Status classifies what happened to a single comment during a run.
type Status string

const (
	// StatusApplied means the file was edited on disk.
	StatusApplied Status = "applied"
	// StatusProposed means a fix cleared the threshold during a dry run.
	StatusProposed Status = "proposed"
	// StatusSkipped means a fix was produced but fell below the
	// confidence threshold; the file is untouched.
	StatusSkipped Status = "skipped"
	// StatusNoFix means the model produced nothing usable.
	StatusNoFix Status = "no-fix"
	// StatusNoFile means the referenced file does not exist under the
	// repository root.
	StatusNoFile Status = "no-file"
	// StatusNoContent means the referenced range holds only whitespace.
	StatusNoContent Status = "no-content"
	// StatusNotActionable means the comment has no path or no body.
	StatusNotActionable Status = "not-actionable"
)

// Outcome records the result for one comment.
type Outcome struct {
	Path       string
	Start, End int
	Status     Status
	Suggestion *Suggestion
	Comment    comments.Comment
}

// RunResult aggregates a whole run.
type RunResult struct {
	Outcomes []Outcome
	DryRun   bool
}

// Applied counts outcomes that edited a file (or would have, in a dry run).
func (r *RunResult) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusApplied || o.Status == StatusProposed {
			n++
		}
	}
	return n
}

// Processed counts all comments seen by the run.
func (r *RunResult) Processed() int {
	return len(r.Outcomes)
}

// Config controls a fix run.
type Config struct {
	// RepoRoot is the directory comment paths are resolved against.
	RepoRoot string

	// DryRun reports fixes without writing any file.
	DryRun bool

	// Batch sends one model call per file instead of one per comment.
	Batch bool

	// MinConfidence is the lowest confidence a fix may have and still be
	// applied.
	MinConfidence Confidence

	// Warnf receives progress and skip notices. Nil silences them.
	Warnf func(format string, args ...interface{})
}

func (c Config) warnf(format string, args ...interface{}) {
	if c.Warnf != nil {
		c.Warnf(format, args...)
	}
}
