package cmd

import (
	"fmt"
	"os"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

func init() {
	manCmd := &cobra.Command{
		Use:    "man",
		Short:  "Generate the revfix manpage",
		Hidden: true,
		Args:   cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(manPage.Build(roff.NewDocument()))
		},
	}

	rootCmd.AddCommand(manCmd)
}
