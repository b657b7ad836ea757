// Package model defines the domain types and value objects for the
// mpbas CLI.
//
// This package contains pure data structures with no external dependencies.
// Grid shapes, flow-model versions, IFACE face selectors and the ordered
// default-iface mapping live here so that the host model, the package
// writer and the configuration loader can share them.
//
// The package also defines exit codes (ExitCode), a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling,
// and ValidationError for field-level input problems.
package model
