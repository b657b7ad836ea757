// Package main is the entry point for the mpbas CLI.
//
// mpbas writes the MODPATH 7 basic package file from a model description
// and can run MODPATH on the result. All functionality lives in the
// internal/cli package.
//
// Build-time variables (version, commit, date) are injected via ldflags;
// during development they default to "dev", "none" and "unknown".
package main

import (
	"github.com/mmr-tortoise/mpbas/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
