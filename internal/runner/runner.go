// Package runner executes MODPATH 7 against a written model, either with a
// locally installed executable or inside a Docker container.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/mmr-tortoise/mpbas/internal/docker"
	"github.com/mmr-tortoise/mpbas/internal/model"
)

// SimExtension is the extension of the MODPATH simulation file.
const SimExtension = "mpsim"

// Job is one MODPATH run.
type Job struct {
	// Model is the model name; the simulation file is <Model>.mpsim.
	Model string

	// Workspace is the directory holding the model files.
	Workspace string

	// Stdout and Stderr receive the MODPATH output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// SimFile returns the simulation file name of the job.
func (j Job) SimFile() string {
	return j.Model + "." + SimExtension
}

func (j Job) writers() (io.Writer, io.Writer) {
	stdout, stderr := j.Stdout, j.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return stdout, stderr
}

// Runner runs MODPATH for a job.
type Runner interface {
	Run(ctx context.Context, job Job) error
}

// checkSimFile fails early when the simulation file is missing, since
// MODPATH itself only reports that interactively.
func checkSimFile(job Job) error {
	path := filepath.Join(job.Workspace, job.SimFile())
	if _, err := os.Stat(path); err != nil {
		return model.WrapCLIError(model.ExitRunFailed, fmt.Sprintf("simulation file not found: %s", path), err)
	}
	return nil
}

// Local runs a MODPATH executable installed on the host.
type Local struct {
	// Executable is a command name looked up on PATH or a path.
	Executable string
}

// Run implements Runner. The executable runs with the workspace as its
// working directory; stderr is also kept to explain a failure.
func (l Local) Run(ctx context.Context, job Job) error {
	// Step 1: The simulation file must exist before MODPATH is launched.
	if err := checkSimFile(job); err != nil {
		return err
	}

	// Step 2: Resolve the executable so a missing install is reported as
	// such rather than as a failed run.
	exe, err := exec.LookPath(l.Executable)
	if err != nil {
		return model.WrapCLIError(model.ExitRunFailed, fmt.Sprintf("MODPATH executable %q not found", l.Executable), err)
	}

	// Step 3: Run in the workspace. stderr is teed into errBuf so the
	// returned error can quote MODPATH's own message.
	stdout, stderr := job.writers()
	var errBuf strings.Builder

	// #nosec G204 -- the executable is chosen by the user on purpose
	cmd := exec.CommandContext(ctx, exe, job.SimFile())
	cmd.Dir = job.Workspace
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, &errBuf)

	log.WithFields(log.Fields{"executable": exe, "workspace": job.Workspace}).Debug("running MODPATH")
	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("%s %s failed", l.Executable, job.SimFile())
		if detail := strings.TrimSpace(errBuf.String()); detail != "" {
			message = fmt.Sprintf("%s: %s", message, detail)
		}
		return model.WrapCLIError(model.ExitRunFailed, message,
			errors.WithDetails(err, "workspace", job.Workspace, "executable", exe))
	}
	return nil
}

// Docker runs MODPATH in a container through the Docker Engine API.
type Docker struct {
	Client *docker.Client

	// Image provides the MODPATH executable.
	Image string

	// Executable is the MODPATH command inside the image.
	Executable string

	// Pull pulls the image before running.
	Pull bool
}

// spec maps a job onto a container run. The workspace is made absolute
// because bind mounts require it.
func (d Docker) spec(job Job) (docker.RunSpec, error) {
	ws, err := filepath.Abs(job.Workspace)
	if err != nil {
		return docker.RunSpec{}, errors.Wrapf(err, "failed to resolve workspace %s", job.Workspace)
	}
	return docker.RunSpec{
		Image:      d.Image,
		Executable: d.Executable,
		SimFile:    job.SimFile(),
		Workspace:  ws,
		Model:      job.Model,
		Pull:       d.Pull,
		User:       docker.HostUser(),
	}, nil
}

// Run implements Runner. Local checks run first so a missing simulation
// file is reported even when Docker is down.
func (d Docker) Run(ctx context.Context, job Job) error {
	if err := checkSimFile(job); err != nil {
		return err
	}
	spec, err := d.spec(job)
	if err != nil {
		return err
	}

	// Fail with ExitDockerNotRunning before any pull or create is tried.
	if err := d.Client.Ping(ctx); err != nil {
		return err
	}

	stdout, stderr := job.writers()
	return docker.RunModpath(ctx, d.Client, spec, stdout, stderr)
}
