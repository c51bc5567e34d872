package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sanix-darker/revfix/internal/comments"
)

func init() {
	commentsCmd := &cobra.Command{
		Use:     "comments <review-comments.json>",
		Short:   "Parse review comments and list them grouped by file",
		Example: "revfix comments review-comments.json",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			list, err := comments.Load(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if len(list) == 0 {
				fmt.Println("No comments.")
				return
			}

			groups := comments.GroupByFile(list)
			paths := make([]string, 0, len(groups))
			for p := range groups {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			for _, path := range paths {
				fmt.Printf("%s (%d comment(s))\n", path, len(groups[path]))
				for _, c := range groups[path] {
					start, end := c.Range()
					marker := " "
					if !c.Actionable() {
						marker = "!"
					}
					fmt.Printf("  %s %d-%d: %s\n", marker, start, end, firstLine(c.Body))
				}
			}

			dropped := len(list)
			for _, g := range groups {
				dropped -= len(g)
			}
			if dropped > 0 {
				fmt.Printf("\n%d comment(s) without a file path were dropped.\n", dropped)
			}
		},
	}

	rootCmd.AddCommand(commentsCmd)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
