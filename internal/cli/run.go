// run.go implements the "mpbas run" command: write the basic package, then
// run MODPATH 7 on the model's simulation file, either with a local mp7 or
// inside a Docker container.
package cli

import (
	"context"
	"io"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mpbas/internal/docker"
	"github.com/mmr-tortoise/mpbas/internal/model"
	"github.com/mmr-tortoise/mpbas/internal/runner"
)

type runFlags struct {
	// docker runs MODPATH in a container instead of on the host.
	docker bool

	// image is the container image (--docker only).
	image string

	// pull pulls the image before running (--docker only).
	pull bool

	// executable is the MODPATH command.
	executable string

	// skipWrite runs against the files already in the workspace.
	skipWrite bool

	// workspace overrides the workspace of the description.
	workspace string
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Write the basic package and run MODPATH 7",
		Long: `Write the basic package file, then run MODPATH 7 on <name>.mpsim in the
model workspace. The simulation, name and particle files must already be
in the workspace.

With --docker, MODPATH runs inside a container with the workspace mounted
at /work. The image comes from --image or MPBAS_IMAGE.

Examples:
  mpbas run
  mpbas run --executable /opt/modpath/bin/mp7
  mpbas run --docker --image registry.example.com/modpath:7.2 --pull`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.docker, "docker", false, "Run MODPATH in a Docker container")
	cmd.Flags().StringVar(&flags.image, "image", "", "Docker image providing MODPATH (default $MPBAS_IMAGE)")
	cmd.Flags().BoolVar(&flags.pull, "pull", false, "Pull the Docker image before running")
	cmd.Flags().StringVar(&flags.executable, "executable", "", "MODPATH executable (default $MPBAS_EXECUTABLE or mp7)")
	cmd.Flags().BoolVar(&flags.skipWrite, "skip-write", false, "Do not rewrite the basic package first")
	cmd.Flags().StringVarP(&flags.workspace, "workspace", "w", "", "Override the model workspace")

	return cmd
}

type runResultJSON struct {
	Model     string `json:"model"`
	Workspace string `json:"workspace"`
	Runner    string `json:"runner"`
	Package   string `json:"package"`
}

// newRunner picks the runner from the flags and environment settings. The
// returned close function releases the Docker client, if any.
func newRunner(flags *runFlags) (runner.Runner, func(), error) {
	executable := flags.executable
	if executable == "" {
		executable = settings.Executable
	}
	if executable == "" {
		executable = "mp7"
	}

	if !flags.docker {
		return runner.Local{Executable: executable}, func() {}, nil
	}

	image := flags.image
	if image == "" {
		image = settings.Image
	}
	if image == "" {
		return nil, nil, model.NewCLIError(model.ExitGeneralError, "--docker needs an image (use --image or MPBAS_IMAGE)")
	}

	cli, err := docker.NewClient()
	if err != nil {
		return nil, nil, err
	}
	r := runner.Docker{Client: cli, Image: image, Executable: executable, Pull: flags.pull}
	return r, func() { _ = cli.Close() }, nil
}

func runRun(ctx context.Context, stdout, stderr io.Writer, flags *runFlags) error {
	// Step 1: Build the model.
	l, err := loadModel(flags.workspace)
	if err != nil {
		return err
	}

	// Step 2: Pick the runner before writing so a bad flag combination
	// fails without side effects.
	r, closeRunner, err := newRunner(flags)
	if err != nil {
		return err
	}
	defer closeRunner()

	// Step 3: Write the package file.
	if !flags.skipWrite {
		if err := writeInput(l, true); err != nil {
			return err
		}
	}

	// Step 4: Run MODPATH. In JSON mode its output goes to stderr so that
	// stdout stays machine readable.
	job := runner.Job{Model: l.model.Name(), Workspace: l.model.Workspace(), Stdout: stdout, Stderr: stderr}
	if IsJSONOutput() {
		job.Stdout = stderr
	}

	kind := "local"
	if flags.docker {
		kind = "docker"
	}
	log.WithFields(log.Fields{"runner": kind, "sim": job.SimFile()}).Info("running MODPATH")
	if err := r.Run(ctx, job); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(stdout, runResultJSON{Model: job.Model, Workspace: job.Workspace, Runner: kind, Package: l.pkg.FilePath()})
	}
	log.Info("MODPATH finished")
	return nil
}
