package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-shelllink/pkg/app/create"
)

var (
	createOut          string
	createName         string
	createArgs         string
	createWorkingDir   string
	createRelativePath string
	createIcon         string
	createIconIndex    int32
	createShow         string
	createDirectory    bool
	createFileSize     uint32
	createLinkInfo     bool
	createVolumeLabel  string
	createSerial       uint32
	createAppID        string
)

var createCmd = &cobra.Command{
	Use:   "create [windows-path]",
	Short: "Build a shell link to a local Windows path",
	Long: `Build a .lnk file that points at an absolute Windows path. The target does
not need to exist on this machine.

Examples:
  # Link to an executable with arguments
  go-shelllink create 'C:\Tools\editor.exe' --out Editor.lnk --args "--new-window"

  # Link to a folder, opened maximized
  go-shelllink create 'D:\Projects' --dir --out Projects.lnk --show maximized`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVar(&createOut, "out", "", "path of the link file to write")
	createCmd.Flags().StringVar(&createName, "name", "", "description shown as the link's comment")
	createCmd.Flags().StringVar(&createArgs, "args", "", "command line arguments")
	createCmd.Flags().StringVar(&createWorkingDir, "working-dir", "", "working directory")
	createCmd.Flags().StringVar(&createRelativePath, "relative-path", "", "target path relative to the link")
	createCmd.Flags().StringVar(&createIcon, "icon", "", "icon location; environment variables are kept unexpanded")
	createCmd.Flags().Int32Var(&createIconIndex, "icon-index", 0, "icon index within the icon location")
	createCmd.Flags().StringVar(&createShow, "show", "normal", "window state (normal, maximized, minimized)")
	createCmd.Flags().BoolVar(&createDirectory, "dir", false, "the target is a folder")
	createCmd.Flags().Uint32Var(&createFileSize, "size", 0, "target file size in bytes")
	createCmd.Flags().BoolVar(&createLinkInfo, "link-info", false, "add volume and local path information")
	createCmd.Flags().StringVar(&createVolumeLabel, "volume-label", "", "volume label stored with --link-info")
	createCmd.Flags().Uint32Var(&createSerial, "volume-serial", 0, "volume serial number stored with --link-info")
	createCmd.Flags().StringVar(&createAppID, "app-id", "", "AppUserModel.ID stored in the property store")

	_ = createCmd.MarkFlagRequired("out")
}

func runCreate(cmd *cobra.Command, target string) error {
	ctx := newContext(cmd)

	request := &create.Request{
		Target:         target,
		OutputPath:     createOut,
		Directory:      createDirectory,
		Name:           createName,
		Arguments:      createArgs,
		WorkingDir:     createWorkingDir,
		RelativePath:   createRelativePath,
		IconLocation:   createIcon,
		IconIndex:      createIconIndex,
		ShowCommand:    createShow,
		FileSize:       createFileSize,
		LinkInfo:       createLinkInfo,
		VolumeLabel:    createVolumeLabel,
		SerialNumber:   createSerial,
		AppUserModelID: createAppID,
	}

	response, err := create.Handle(ctx, request)
	if err != nil {
		return err
	}
	if ctx.Quiet {
		return nil
	}
	return create.FormatOutput(ctx.Stdout, response, ctx.OutputFormat)
}
