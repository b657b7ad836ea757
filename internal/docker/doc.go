// Package docker runs MODPATH 7 inside a container for hosts without a
// native mp7 build.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Run containers: create, start, wait, stream logs, remove
//   - Container labels that identify runs started by mpbas, so that
//     containers left behind by interrupted runs can be pruned
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
