package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-shelllink/pkg/app/inspect"
)

var (
	scanExtensions      []string
	scanContinueOnError bool
	scanFailOnError     bool
	scanTimeout         time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory|archive]",
	Short: "Decode every shell link inside a directory or archive",
	Long: `Walk a directory tree or a zip, tar, tar.gz, tar.xz or tar.bz2 archive and
decode every file with a matching extension. Each file is reported as decoded
or failed, followed by a summary.

Examples:
  # Check every link in a user profile backup
  go-shelllink scan profile-backup.tar.xz

  # Give a large network share ten minutes
  go-shelllink scan /mnt/share/profiles --timeout 10m

  # Stop at the first link that does not decode
  go-shelllink scan ./links --continue-on-error=false`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanExtensions, "ext", nil, "file extensions to decode (default from config: .lnk)")
	scanCmd.Flags().BoolVar(&scanContinueOnError, "continue-on-error", true, "keep scanning after a link fails to decode")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "abort the scan after this long; 0 disables the limit (default from config: 5m)")
	scanCmd.Flags().BoolVar(&scanFailOnError, "fail-on-error", false, "exit non-zero when any link fails to decode")
}

func runScan(cmd *cobra.Command, source string) error {
	ctx := newContext(cmd)

	request := &inspect.ScanRequest{
		Source:          source,
		Extensions:      cfg.Scan.Extensions,
		ContinueOnError: cfg.Scan.ContinueOnError,
	}
	if cmd.Flags().Changed("ext") {
		request.Extensions = scanExtensions
	}
	if cmd.Flags().Changed("continue-on-error") {
		request.ContinueOnError = scanContinueOnError
	}
	if cmd.Flags().Changed("timeout") {
		ctx.DefaultTimeout = scanTimeout
	}
	if ctx.Verbose && !ctx.Quiet {
		ctx.SetProgress(func(message string, percent int) {
			if percent < 0 {
				ctx.Log("  " + message)
			}
		})
	}

	response, err := inspect.Scan(ctx, request)
	if response != nil {
		if ferr := inspect.FormatScanOutput(ctx.Stdout, response, ctx.OutputFormat, !ctx.NoColor); ferr != nil {
			return ferr
		}
	}
	if err != nil {
		return err
	}
	if scanFailOnError && response.Failed > 0 {
		return fmt.Errorf("%d of %d links failed to decode", response.Failed, response.Total)
	}
	return nil
}
