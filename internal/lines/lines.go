// Package lines stores file content as a sequence of lines with their
// terminators preserved, so that splicing a range back produces exactly
// the original bytes everywhere outside the range.
//
// All ranges are 1-based and inclusive on both ends.
package lines

import (
	"os"
	"path/filepath"
	"strings"
)

// Read loads a file as a line sequence. A missing or non-regular file
// yields an empty sequence and no error; only actual read failures are
// errors.
func Read(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Split(string(data)), nil
}

// Write stores a line sequence, creating parent directories as needed.
// The file content is exactly the concatenation of the sequence.
func Write(path string, seq []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.Join(seq, "")), 0o644)
}

// Split cuts text into lines, each keeping its terminator. A trailing
// fragment without a terminator is kept as-is, so Join(Split(s), "")
// round-trips. Empty input yields a nil sequence.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	var seq []string
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			seq = append(seq, text)
			break
		}
		seq = append(seq, text[:i+1])
		text = text[i+1:]
	}
	return seq
}

// ClampRange forces a 1-based inclusive range into [1,n]. A zero end
// collapses to start. Start and end are clamped independently in order,
// so end never lands before start; reversed input ranges are the
// caller's problem.
func ClampRange(n, start, end int) (int, int) {
	if end == 0 {
		end = start
	}
	if start < 1 {
		start = 1
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}

// Extract returns the concatenated content of lines start..end after
// clamping. An empty sequence yields "".
func Extract(seq []string, start, end int) string {
	if len(seq) == 0 {
		return ""
	}
	start, end = ClampRange(len(seq), start, end)
	return strings.Join(seq[start-1:end], "")
}

// Splice replaces lines start..end (clamped) with replacement text and
// reports whether anything was written. An empty sequence is returned
// unchanged with changed=false. The replacement is split with
// terminators kept; a final fragment without a terminator gets one
// appended, and an empty replacement becomes a single blank line (a
// range cannot be deleted outright).
func Splice(seq []string, start, end int, replacement string) ([]string, bool) {
	if len(seq) == 0 {
		return seq, false
	}
	start, end = ClampRange(len(seq), start, end)

	frags := Split(replacement)
	if len(frags) == 0 {
		frags = []string{"\n"}
	} else if !strings.HasSuffix(frags[len(frags)-1], "\n") {
		frags[len(frags)-1] += "\n"
	}

	out := make([]string, 0, len(seq)-(end-start+1)+len(frags))
	out = append(out, seq[:start-1]...)
	out = append(out, frags...)
	out = append(out, seq[end:]...)
	return out, true
}
