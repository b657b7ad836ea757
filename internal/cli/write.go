// write.go implements the "mpbas write" command.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

type writeFlags struct {
	// check runs the advisory package check before writing.
	check bool

	// workspace overrides the workspace of the description.
	workspace string
}

// NewWriteCommand creates the "write" cobra command.
func NewWriteCommand() *cobra.Command {
	flags := &writeFlags{}

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the basic package file",
		Long: `Write the MODPATH 7 basic package file to the model workspace as
<name>.<extension>, replacing any existing file. The workspace directory is
created if needed.

Examples:
  mpbas write
  mpbas write --check -w out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.check, "check", false, "Report advisory findings before writing")
	cmd.Flags().StringVarP(&flags.workspace, "workspace", "w", "", "Override the model workspace")

	return cmd
}

type writeResultJSON struct {
	Package string `json:"package"`
	Path    string `json:"path"`
	Unit    int    `json:"unit"`
}

// writeInput writes every package of the loaded model.
func writeInput(l *loadedModel, check bool) error {
	if err := l.model.WriteInput(check); err != nil {
		return model.WrapCLIError(model.ExitWriteFailed, fmt.Sprintf("failed to write %s", l.pkg.FilePath()), err)
	}
	return nil
}

func runWrite(w io.Writer, flags *writeFlags) error {
	l, err := loadModel(flags.workspace)
	if err != nil {
		return err
	}
	if err := writeInput(l, flags.check); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, writeResultJSON{Package: l.pkg.Name(), Path: l.pkg.FilePath(), Unit: l.pkg.UnitNumber()})
	}
	_, err = fmt.Fprintf(w, "wrote %s\n", l.pkg.FilePath())
	return err
}
