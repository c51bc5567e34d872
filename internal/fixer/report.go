package fixer

import (
	"fmt"
	"strings"
)

// Report renders a run as markdown: one section per comment that
// produced a suggestion, then the processed/applied summary line.
func Report(r *RunResult) string {
	var b strings.Builder

	if r.DryRun {
		b.WriteString("# Proposed fixes (dry run)\n\n")
	} else {
		b.WriteString("# Applied fixes\n\n")
	}

	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusApplied, StatusProposed, StatusSkipped:
		default:
			continue
		}

		fmt.Fprintf(&b, "## %s:%d-%d\n\n", o.Path, o.Start, o.End)
		fmt.Fprintf(&b, "- status: **%s**\n", o.Status)
		if o.Suggestion != nil {
			fmt.Fprintf(&b, "- confidence: %s\n", o.Suggestion.Confidence)
			if o.Suggestion.Explanation != "" {
				fmt.Fprintf(&b, "- %s\n", o.Suggestion.Explanation)
			}
			b.WriteString("\n```\n")
			b.WriteString(o.Suggestion.Replacement)
			if !strings.HasSuffix(o.Suggestion.Replacement, "\n") {
				b.WriteByte('\n')
			}
			b.WriteString("```\n")
		}
		b.WriteByte('\n')
	}

	b.WriteString(Summary(r))
	b.WriteByte('\n')
	return b.String()
}

// Summary is the one-line run summary.
func Summary(r *RunResult) string {
	return fmt.Sprintf("Processed %d comment(s), applied %d fix(es).",
		r.Processed(), r.Applied())
}
