// show.go implements the "mpbas show" command, which prints what would be
// written without touching the workspace.
package cli

import (
	"io"

	"emperror.dev/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type showFlags struct {
	// render prints the package file text instead of the summary.
	render bool

	// workspace overrides the workspace of the description.
	workspace string
}

// NewShowCommand creates the "show" cobra command.
func NewShowCommand() *cobra.Command {
	flags := &showFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configured basic package",
		Long: `Show a summary of the configured basic package: file path, unit
number, grid shape, head values, default IFACE entries, layer types,
active cell count and porosity range.

The summary is printed as YAML, or as JSON with --json. With --render the
package file itself is printed to standard output instead.

Examples:
  mpbas show
  mpbas show --json
  mpbas show --render > ex01.mpbas`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.render, "render", false, "Print the package file instead of a summary")
	cmd.Flags().StringVarP(&flags.workspace, "workspace", "w", "", "Override the model workspace")

	return cmd
}

func runShow(w io.Writer, flags *showFlags) error {
	l, err := loadModel(flags.workspace)
	if err != nil {
		return err
	}

	if flags.render {
		return l.pkg.Render(w)
	}

	summary := l.pkg.Summarize()
	if IsJSONOutput() {
		return printJSON(w, summary)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return errors.Wrap(err, "failed to encode summary")
	}
	return enc.Close()
}
