// runs.go implements the "mpbas runs" and "mpbas prune" commands, which
// inspect and clean up the containers created by "mpbas run --docker".
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mpbas/internal/docker"
)

// NewRunsCommand creates the "runs" cobra command.
func NewRunsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List MODPATH run containers",
		Long: `List the containers created by "mpbas run --docker". Containers are
removed when a run finishes, so anything listed here belongs to a run that
is still going or was interrupted.

Examples:
  mpbas runs
  mpbas runs --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runRuns(ctx context.Context, w io.Writer) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}

	runs, err := docker.ListRuns(ctx, cli)
	if err != nil {
		return err
	}
	sortRuns(runs)

	if IsJSONOutput() {
		return printJSON(w, map[string][]docker.RunInfo{"runs": runs})
	}
	printRunsText(w, runs)
	return nil
}

// sortRuns orders runs by start time, oldest first, then by id.
func sortRuns(runs []docker.RunInfo) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.Before(runs[j].StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
}

// printRunsText prints runs as a table:
//
//	CONTAINER     MODEL        STATE     WORKSPACE
//	3f2a9c1b0d4e  ex01         exited    /data/models/ex01
func printRunsText(w io.Writer, runs []docker.RunInfo) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No MODPATH run containers found.")
		return
	}

	fmt.Fprintf(w, "%-13s %-12s %-9s %s\n", "CONTAINER", "MODEL", "STATE", "WORKSPACE")
	for _, r := range runs {
		fmt.Fprintf(w, "%-13s %-12s %-9s %s\n", shortID(r.ID), r.Model, r.State, r.Workspace)
	}
}

// shortID truncates a container id to the 12 characters Docker displays.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// NewPruneCommand creates the "prune" cobra command.
func NewPruneCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove leftover MODPATH run containers",
		Long: `Remove containers left behind by interrupted "mpbas run --docker" runs.
Running containers are kept unless --force is given.

Examples:
  mpbas prune
  mpbas prune --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd.Context(), cmd.OutOrStdout(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Also remove running containers")
	return cmd
}

func runPrune(ctx context.Context, w io.Writer, force bool) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}

	removed, err := docker.PruneRuns(ctx, cli, force)
	if err != nil {
		return err
	}
	if removed == nil {
		removed = []string{}
	}

	if IsJSONOutput() {
		return printJSON(w, map[string][]string{"removed": removed})
	}
	for _, id := range removed {
		fmt.Fprintf(w, "removed %s\n", shortID(id))
	}
	fmt.Fprintf(w, "%d container(s) removed\n", len(removed))
	return nil
}
