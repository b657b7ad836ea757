package docker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// ContainerWorkDir is where the model workspace is mounted in the container.
const ContainerWorkDir = "/work"

// RunSpec describes one containerized MODPATH run.
type RunSpec struct {
	// Image is the image providing the MODPATH executable.
	Image string

	// Executable is the MODPATH command inside the image.
	Executable string

	// SimFile is the simulation file name, relative to Workspace.
	SimFile string

	// Workspace is the absolute host path of the model workspace.
	Workspace string

	// Model is the model name, recorded in the container labels.
	Model string

	// Pull pulls Image before the run.
	Pull bool

	// User is the "uid:gid" the container runs as. Empty runs as the image
	// default user.
	User string
}

// HostUser returns the "uid:gid" of the current process so that files the
// container writes into the workspace are owned by the caller. It returns
// "" where user ids are not available (Windows).
func HostUser() string {
	uid, gid := os.Getuid(), os.Getgid()
	if uid < 0 || gid < 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", uid, gid)
}

// containerConfig builds the container configuration for spec. The TTY is
// left off so stdout and stderr arrive multiplexed and can be split.
func containerConfig(spec RunSpec, now time.Time) *container.Config {
	return &container.Config{
		Image:        spec.Image,
		Cmd:          []string{spec.Executable, spec.SimFile},
		WorkingDir:   ContainerWorkDir,
		User:         spec.User,
		AttachStdout: true,
		AttachStderr: true,
		Labels:       BuildLabels(spec, now),
	}
}

// hostConfig bind-mounts the workspace at ContainerWorkDir.
func hostConfig(spec RunSpec) *container.HostConfig {
	return &container.HostConfig{
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: spec.Workspace,
				Target: ContainerWorkDir,
			},
		},
	}
}

// validateSpec checks the fields RunModpath cannot do without.
func validateSpec(spec RunSpec) error {
	switch {
	case spec.Image == "":
		return model.NewCLIError(model.ExitGeneralError, "no Docker image configured (use --image or MPBAS_IMAGE)")
	case spec.Executable == "":
		return model.NewCLIError(model.ExitGeneralError, "no MODPATH executable configured")
	case spec.SimFile == "":
		return model.NewCLIError(model.ExitGeneralError, "no simulation file given")
	case !filepath.IsAbs(spec.Workspace):
		return model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("workspace %q must be an absolute path", spec.Workspace))
	}
	return nil
}

// RunModpath runs MODPATH in a fresh container and streams its output to
// stdout and stderr. The container is removed afterwards, whatever the
// outcome.
//
// The lifecycle is:
//  1. pull the image (only when spec.Pull is set)
//  2. create a labelled container with the workspace bind-mounted at
//     ContainerWorkDir, running as the host user
//  3. start it and copy the multiplexed log stream until it ends
//  4. wait for the exit status
//
// Removal is deferred right after creation so that a failure in any later
// step, or a cancelled ctx, still leaves no container behind. A removal
// error is returned only when the run itself succeeded.
//
// Returns a model.CLIError with ExitRunFailed when MODPATH exits non-zero.
func RunModpath(ctx context.Context, cli *Client, spec RunSpec, stdout, stderr io.Writer) (err error) {
	// Step 0: Reject incomplete specs before touching the daemon.
	if err := validateSpec(spec); err != nil {
		return err
	}
	api := cli.Inner()
	logger := log.WithFields(log.Fields{"image": spec.Image, "model": spec.Model})

	// Step 1: Pull the image if requested.
	if spec.Pull {
		logger.Info("pulling image")
		if err := pullImage(ctx, api, spec.Image); err != nil {
			return err
		}
	}

	// Step 2: Create the container. The labels carry the model name and
	// workspace so "mpbas runs" can list it later.
	created, err := api.ContainerCreate(ctx, containerConfig(spec, time.Now()), hostConfig(spec), nil, nil, "")
	if err != nil {
		return model.WrapCLIError(model.ExitRunFailed, fmt.Sprintf("failed to create container from image %q", spec.Image), err)
	}
	id := created.ID
	logger = logger.WithField("container_id", id)
	for _, w := range created.Warnings {
		logger.Warn(w)
	}

	defer func() {
		// Remove with a fresh context so cleanup still happens when ctx
		// was cancelled.
		rmErr := api.ContainerRemove(context.Background(), id, container.RemoveOptions{Force: true})
		if rmErr != nil {
			logger.WithField("error", rmErr).Warn("failed to remove run container")
			if err == nil {
				err = errors.Wrap(rmErr, "failed to remove run container")
			}
		}
	}()

	// Step 3: Start it and stream the output until it exits. The logs are
	// followed, so StdCopy returns once the container stops writing.
	logger.Debug("starting container")
	if err := api.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return model.WrapCLIError(model.ExitRunFailed, "failed to start run container", err)
	}

	logs, err := api.ContainerLogs(ctx, id, container.LogsOptions{ShowStdout: true, ShowStderr: true, Follow: true})
	if err != nil {
		return errors.Wrap(err, "failed to attach to run container logs")
	}
	defer logs.Close()
	if _, err := stdcopy.StdCopy(stdout, stderr, logs); err != nil {
		return errors.Wrap(err, "failed to read run container output")
	}

	// Step 4: Collect the exit status. A daemon-side error message takes
	// precedence over the status code.
	statusCh, errCh := api.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "failed waiting for run container")
		}
	case status := <-statusCh:
		if status.Error != nil && status.Error.Message != "" {
			return model.NewCLIError(model.ExitRunFailed, "run container failed: "+status.Error.Message)
		}
		if status.StatusCode != 0 {
			return model.NewCLIError(model.ExitRunFailed, fmt.Sprintf("%s exited with status %d", spec.Executable, status.StatusCode))
		}
	}

	logger.Debug("run finished")
	return nil
}

// pullImage pulls ref and blocks until the pull has completed.
func pullImage(ctx context.Context, api API, ref string) error {
	r, err := api.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(model.ExitRunFailed, fmt.Sprintf("failed to pull image %q", ref), err)
	}
	defer r.Close()

	s := bufio.NewScanner(r)
	for s.Scan() {
		log.Debug(s.Text())
	}
	return errors.WithStack(s.Err())
}

// ListRuns returns the run containers known to the daemon, including
// stopped ones.
func ListRuns(ctx context.Context, cli *Client) ([]RunInfo, error) {
	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{All: true, Filters: managedFilter()})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to list run containers", err)
	}

	runs := make([]RunInfo, 0, len(containers))
	for _, c := range containers {
		runs = append(runs, runInfo(c))
	}
	return runs, nil
}

// PruneRuns removes run containers left behind by interrupted runs. Running
// containers are kept unless force is set. It returns the removed ids.
func PruneRuns(ctx context.Context, cli *Client, force bool) ([]string, error) {
	runs, err := ListRuns(ctx, cli)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, r := range runs {
		if r.State == "running" && !force {
			log.WithField("container_id", r.ID).Info("skipping running container")
			continue
		}
		if err := cli.Inner().ContainerRemove(ctx, r.ID, container.RemoveOptions{Force: force}); err != nil {
			return removed, model.WrapCLIError(model.ExitDockerNotRunning, fmt.Sprintf("failed to remove container %q", r.ID), err)
		}
		removed = append(removed, r.ID)
	}
	return removed, nil
}
