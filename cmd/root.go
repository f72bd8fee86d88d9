package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/internal/config"
	"github.com/deploymenttheory/go-shelllink/internal/logger"
	"github.com/deploymenttheory/go-shelllink/pkg/app"
)

var (
	// Global output flags
	verbose      bool
	quiet        bool
	noColor      bool
	outputFormat string

	// Global codec flags
	configPath string
	codePage   string
	debug      bool

	// Loaded in PersistentPreRunE
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "go-shelllink",
	Short: "Read, scan and create Windows shell link (.lnk) files",
	Long: `go-shelllink decodes and encodes Windows shell link (.lnk) files on any
platform. Links are validated strictly: a file that decodes is one Windows
would accept.

Commands:
  read      Decode a single link and print its contents
  scan      Decode every link inside a directory or archive
  create    Build a link to a local Windows path`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", app.FormatTable, "output format (table, json, yaml, plist)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: shelllink.yaml in ., ./config, $HOME/.shelllink, /etc/shelllink)")
	rootCmd.PersistentFlags().StringVar(&codePage, "code-page", "", "ANSI code page of non-Unicode strings (utf-8, windows-1252, shift_jis, ...)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log decoder tracing at debug level")
}

// loadSettings merges the config file with the flags the user set and
// builds the logger.
func loadSettings(cmd *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = outputFormat
	}
	if flags.Changed("code-page") {
		cfg.CodePage = codePage
	}
	if flags.Changed("debug") {
		cfg.Log.Debug = debug
	}
	if err := app.ValidateOutputFormat(cfg.Output); err != nil {
		return err
	}

	log, err = logger.New(cfg.Log.Logger())
	return err
}

// newContext creates the application context from the loaded settings
func newContext(cmd *cobra.Command) *app.Context {
	ctx := app.NewContext()
	if c := cmd.Context(); c != nil {
		ctx.Context = c
	}
	if out := cmd.OutOrStdout(); out != os.Stdout {
		ctx.Stdout = out
	}
	if errOut := cmd.ErrOrStderr(); errOut != os.Stderr {
		ctx.Stderr = errOut
	}
	ctx.OutputFormat = cfg.Output
	ctx.Verbose = verbose
	ctx.Quiet = quiet
	ctx.NoColor = noColor
	ctx.CodePage = cfg.CodePage
	ctx.MaxInputSize = cfg.MaxInputSize
	ctx.DefaultTimeout = cfg.Scan.Timeout
	ctx.Logger = log
	return ctx
}
