// Package cli implements the cobra-based CLI commands for mpbas.
//
// Each subcommand (validate, show, write, run, runs, prune) is defined in
// its own file within this package. This file defines the root command,
// the global flags and the error/exit-code handling.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mpbas/internal/config"
	"github.com/mmr-tortoise/mpbas/internal/logging"
	"github.com/mmr-tortoise/mpbas/internal/model"
)

// Global flag variables shared across all subcommands. They are bound to
// persistent flags on the root command.
var (
	// configPath is the model description file (--config).
	configPath string

	// jsonOutput switches command output and errors to JSON.
	jsonOutput bool

	// verbose enables debug logging.
	verbose bool

	// settings holds the MPBAS_* environment overrides, read before any
	// subcommand runs.
	settings config.Settings
)

// Build information, injected from the main package.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates the root cobra command with every subcommand
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mpbas",
		Short: "MODPATH 7 basic package writer",
		Long: `mpbas writes the MODPATH 7 basic package (MPBAS) file from a model
description: head values for inactive and dry cells, default IFACE values
for stress-package budget labels, layer types, IBOUND and porosity.

The model description is read from --config, MPBAS_CONFIG, or the first of
mpbas.yaml, mpbas.yml, mpbas.jsonc and mpbas.json in the current directory.`,

		// Errors are printed by Execute, as text or JSON.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSettings()
			if err != nil {
				return model.WrapCLIError(model.ExitInvalidConfig, "invalid environment settings", err)
			}
			settings = s
			logging.Configure(cmd.ErrOrStderr(), verbose || settings.Debug)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Model description file (YAML or JSONC)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewWriteCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewRunsCommand())
	rootCmd.AddCommand(NewPruneCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code carried by a
// CLIError, or ExitGeneralError for any other error. An interrupt cancels
// the command context, which stops a running MODPATH process or container.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(int(reportError(os.Stderr, err)))
	}
}

// reportError prints err and returns the exit code it maps to.
func reportError(w io.Writer, err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(w, cliErr.Message, cliErr.Err)
		return cliErr.Code
	}

	printError(w, err.Error(), nil)
	return model.ExitGeneralError
}

// printError writes an error message to w in the format selected by --json.
func printError(w io.Writer, message string, underlying error) {
	if !jsonOutput {
		if underlying != nil {
			fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(w, "Error: %s\n", message)
		}
		return
	}

	type errorJSON struct {
		Message string                  `json:"message"`
		Detail  string                  `json:"detail,omitempty"`
		Fields  []model.ValidationError `json:"fields,omitempty"`
	}
	e := errorJSON{Message: message}
	if underlying != nil {
		e.Detail = underlying.Error()
		var vErrs config.ValidationErrors
		if errors.As(underlying, &vErrs) {
			e.Fields = vErrs
		}
	}
	data, _ := json.MarshalIndent(map[string]errorJSON{"error": e}, "", "  ")
	fmt.Fprintln(w, string(data))
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode JSON output")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// logFindings reports advisory check results as warnings.
func logFindings(findings []model.ValidationError) {
	for _, f := range findings {
		log.WithField("field", f.Field).Warn(f.Message)
	}
}
