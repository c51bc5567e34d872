package fixer

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sanix-darker/revfix/internal/comments"
	"github.com/sanix-darker/revfix/internal/lines"
)

// Fixer runs the fix loop over a set of review comments.
type Fixer struct {
	cfg       Config
	suggester Suggester
}

// New builds a Fixer.
func New(cfg Config, s Suggester) *Fixer {
	if cfg.RepoRoot == "" {
		cfg.RepoRoot = "."
	}
	return &Fixer{cfg: cfg, suggester: s}
}

// Run processes every comment and returns the per-comment outcomes.
// Only the target files themselves are fatal-free: a missing file, an
// empty snippet or a failed model call skips that comment and the run
// continues.
func (f *Fixer) Run(ctx context.Context, list []comments.Comment) (*RunResult, error) {
	if f.cfg.Batch {
		return f.runBatch(ctx, list)
	}
	return f.runPerComment(ctx, list)
}

func (f *Fixer) runPerComment(ctx context.Context, list []comments.Comment) (*RunResult, error) {
	result := &RunResult{DryRun: f.cfg.DryRun}

	for i, c := range list {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if !c.Actionable() {
			result.Outcomes = append(result.Outcomes, Outcome{
				Path: c.Path, Status: StatusNotActionable, Comment: c,
			})
			continue
		}

		filePath := filepath.Join(f.cfg.RepoRoot, c.Path)
		seq, err := lines.Read(filePath)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", filePath, err)
		}
		start, end := c.Range()
		if len(seq) == 0 {
			f.cfg.warnf("[%d] Skip: file not found %s", i+1, c.Path)
			result.Outcomes = append(result.Outcomes, Outcome{
				Path: c.Path, Start: start, End: end, Status: StatusNoFile, Comment: c,
			})
			continue
		}

		snippet := lines.Extract(seq, start, end)
		if strings.TrimSpace(snippet) == "" {
			f.cfg.warnf("[%d] Skip: no content at %s:%d", i+1, c.Path, start)
			result.Outcomes = append(result.Outcomes, Outcome{
				Path: c.Path, Start: start, End: end, Status: StatusNoContent, Comment: c,
			})
			continue
		}

		f.cfg.warnf("[%d] %s:%d-%d — %q", i+1, c.Path, start, end, truncate(c.Body, 60))

		sug, err := f.suggester.SuggestFix(ctx, FixRequest{
			Path:     c.Path,
			Snippet:  snippet,
			Comment:  c.Body,
			DiffHunk: c.DiffHunk,
		})
		if err != nil {
			f.cfg.warnf("[%d] No fix: %v", i+1, err)
			sug = nil
		}
		if sug == nil {
			result.Outcomes = append(result.Outcomes, Outcome{
				Path: c.Path, Start: start, End: end, Status: StatusNoFix, Comment: c,
			})
			continue
		}

		result.Outcomes = append(result.Outcomes,
			f.conclude(filePath, c, start, end, sug))
	}

	return result, nil
}

func (f *Fixer) runBatch(ctx context.Context, list []comments.Comment) (*RunResult, error) {
	result := &RunResult{DryRun: f.cfg.DryRun}

	groups := comments.GroupByFile(list)
	paths := make([]string, 0, len(groups))
	for p := range groups {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		group := groups[path]

		filePath := filepath.Join(f.cfg.RepoRoot, path)
		seq, err := lines.Read(filePath)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", filePath, err)
		}
		if len(seq) == 0 {
			f.cfg.warnf("Skip: file not found %s", path)
			for _, c := range group {
				start, end := c.Range()
				result.Outcomes = append(result.Outcomes, Outcome{
					Path: path, Start: start, End: end, Status: StatusNoFile, Comment: c,
				})
			}
			continue
		}

		f.cfg.warnf("%s: %d comment(s), one model call", path, len(group))

		fixes, err := f.suggester.SuggestFileFixes(ctx, FileFixRequest{
			Path:     path,
			Content:  strings.Join(seq, ""),
			Comments: group,
		})
		if err != nil {
			f.cfg.warnf("No fixes for %s: %v", path, err)
			fixes = nil
		}

		byIndex := make(map[int]BatchFix, len(fixes))
		for _, fix := range fixes {
			if fix.CommentIndex >= 0 && fix.CommentIndex < len(group) {
				byIndex[fix.CommentIndex] = fix
			}
		}

		for i, c := range group {
			cStart, cEnd := c.Range()
			fix, ok := byIndex[i]
			if !ok {
				result.Outcomes = append(result.Outcomes, Outcome{
					Path: path, Start: cStart, End: cEnd, Status: StatusNoFix, Comment: c,
				})
				continue
			}

			// Fall back to the comment's own range when the model gave none.
			start, end := fix.StartLine, fix.EndLine
			if start <= 0 {
				start, end = cStart, cEnd
			} else if end <= 0 {
				end = start
			}
			if start > end {
				start, end = end, start
			}

			sug := &Suggestion{
				Replacement: fix.Replacement,
				Confidence:  fix.Confidence,
				Explanation: fix.Explanation,
			}
			result.Outcomes = append(result.Outcomes,
				f.conclude(filePath, c, start, end, sug))
		}
	}

	return result, nil
}

// conclude gates a produced suggestion on the confidence threshold and,
// outside a dry run, splices it into the file.
//
// The file is re-read from disk here, so in batch mode a later fix in the
// same file sees the post-edit line numbering rather than the content the
// model was shown. Ranges can drift when an earlier fix changed the line
// count.
func (f *Fixer) conclude(filePath string, c comments.Comment, start, end int, sug *Suggestion) Outcome {
	out := Outcome{
		Path: c.Path, Start: start, End: end, Suggestion: sug, Comment: c,
	}

	if sug.Confidence < f.cfg.MinConfidence {
		f.cfg.warnf("  Skipped: confidence %s below %s", sug.Confidence, f.cfg.MinConfidence)
		out.Status = StatusSkipped
		return out
	}

	if f.cfg.DryRun {
		f.cfg.warnf("  [dry-run] Would replace %s:%d-%d", c.Path, start, end)
		out.Status = StatusProposed
		return out
	}

	seq, err := lines.Read(filePath)
	if err != nil || len(seq) == 0 {
		f.cfg.warnf("  Failed to apply (file unreadable)")
		out.Status = StatusNoFix
		return out
	}
	cs, ce := lines.ClampRange(len(seq), start, end)
	newSeq, changed := lines.Splice(seq, cs, ce, sug.Replacement)
	if !changed {
		f.cfg.warnf("  Failed to apply (content mismatch)")
		out.Status = StatusNoFix
		return out
	}
	if err := lines.Write(filePath, newSeq); err != nil {
		f.cfg.warnf("  Failed to apply: %v", err)
		out.Status = StatusNoFix
		return out
	}

	f.cfg.warnf("  Applied.")
	out.Status = StatusApplied
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
