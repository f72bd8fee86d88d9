package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-shelllink/pkg/app/inspect"
)

var readCmd = &cobra.Command{
	Use:   "read [link-path]",
	Short: "Decode a shell link and print its contents",
	Long: `Decode a single .lnk file and print the header, target ID list, link info,
strings and extra data blocks.

Examples:
  # Print a link as a table
  go-shelllink read "Desktop/Editor.lnk"

  # Decode ANSI strings written on a Western European system
  go-shelllink read old.lnk --code-page windows-1252 -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, path string) error {
	ctx := newContext(cmd)

	response, err := inspect.Handle(ctx, &inspect.Request{Path: path})
	if err != nil {
		return err
	}
	return inspect.FormatOutput(ctx.Stdout, response, ctx.OutputFormat)
}
