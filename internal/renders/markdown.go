// Package renders turns markdown output into something readable on a
// terminal.
package renders

import (
	"os"

	markdown "github.com/MichaelMure/go-term-markdown"
	"golang.org/x/term"
)

const defaultWidth = 80

// RenderMarkdown renders markdown for the current terminal width,
// falling back to 80 columns when stdout is not a terminal.
func RenderMarkdown(content string) string {
	width := defaultWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return string(markdown.Render(content, width, 0))
}
