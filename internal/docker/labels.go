package docker

import (
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
)

// Labels set on every run container. They are the only record of which
// containers belong to mpbas; there is no state file.
const (
	// LabelPrefix namespaces the keys so they do not collide with labels
	// set by other tools.
	LabelPrefix = "mpbas."

	// LabelManagedBy marks containers started by mpbas.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelModel is the MODPATH model name of the run.
	LabelModel = LabelPrefix + "model"

	// LabelWorkspace is the host workspace mounted into the container.
	LabelWorkspace = LabelPrefix + "workspace"

	// LabelStartedAt is the RFC 3339 start time of the run.
	LabelStartedAt = LabelPrefix + "started-at"
)

// ManagedByValue is the value of LabelManagedBy.
const ManagedByValue = "mpbas"

// BuildLabels returns the labels for a run container.
func BuildLabels(spec RunSpec, now time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelModel:     spec.Model,
		LabelWorkspace: spec.Workspace,
		LabelStartedAt: now.UTC().Format(time.RFC3339),
	}
}

// managedFilter selects the containers carrying LabelManagedBy.
func managedFilter() filters.Args {
	return filters.NewArgs(filters.Arg("label", LabelManagedBy+"="+ManagedByValue))
}

// RunInfo describes a run container found on the daemon.
type RunInfo struct {
	ID        string    `json:"id" yaml:"id"`
	Model     string    `json:"model" yaml:"model"`
	Workspace string    `json:"workspace" yaml:"workspace"`
	State     string    `json:"state" yaml:"state"`
	StartedAt time.Time `json:"startedAt" yaml:"started_at"`
}

// runInfo converts an SDK container summary. A malformed start time is
// left as the zero time.
func runInfo(c types.Container) RunInfo {
	info := RunInfo{
		ID:        c.ID,
		Model:     c.Labels[LabelModel],
		Workspace: c.Labels[LabelWorkspace],
		State:     c.State,
	}
	if ts, err := time.Parse(time.RFC3339, c.Labels[LabelStartedAt]); err == nil {
		info.StartedAt = ts
	}
	return info
}
