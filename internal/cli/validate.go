// validate.go implements the "mpbas validate" command.
//
// The command loads the model description, reports every validation error
// it contains and, when it is valid, the advisory findings of the package
// check (porosity range, no active cells, negative layer types).
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// NewValidateCommand creates the "validate" cobra command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the model description",
		Long: `Validate the model description without writing anything.

Exits with status 3 when the description is invalid. Advisory findings,
such as porosity values outside (0, 1], are reported but do not fail.

Examples:
  mpbas validate
  mpbas validate -c models/ex01.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout())
		},
	}
}

type validateResultJSON struct {
	Config   string                  `json:"config"`
	Valid    bool                    `json:"valid"`
	Findings []model.ValidationError `json:"findings"`
}

func runValidate(w io.Writer) error {
	l, err := loadModel("")
	if err != nil {
		return err
	}

	findings := l.pkg.Check()
	if IsJSONOutput() {
		if findings == nil {
			findings = []model.ValidationError{}
		}
		return printJSON(w, validateResultJSON{Config: l.path, Valid: true, Findings: findings})
	}

	logFindings(findings)
	_, err = fmt.Fprintf(w, "%s: valid (%d default iface entries, %d finding(s))\n",
		l.path, l.pkg.DefaultIfaceCount(), len(findings))
	return err
}
