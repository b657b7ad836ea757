package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"emperror.dev/errors"
	"github.com/docker/docker/client"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// defaultPingTimeout bounds how long Ping waits for the daemon. Docker
// Desktop on macOS can take a few seconds to answer the first request.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client used to run MODPATH containers.
// It handles Docker socket detection on Linux, macOS and Windows and turns
// daemon connectivity failures into CLI errors with ExitDockerNotRunning.
//
// Usage:
//
//	c, err := docker.NewClient()
//	if err != nil { /* handle */ }
//	defer c.Close()
//	if err := c.Ping(ctx); err != nil { /* Docker not running */ }
type Client struct {
	// inner is the SDK client, held behind the API interface so that the
	// run lifecycle can be driven by a fake in tests.
	inner API
}

// NewClient creates a new Docker client with automatic socket detection.
//
// The host is chosen in this order:
//  1. DOCKER_HOST environment variable (if set, used as-is)
//  2. Platform-specific default socket paths:
//     - Linux: /var/run/docker.sock
//     - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//     - Windows: npipe:////./pipe/docker_engine
//
// Returns a model.CLIError with ExitDockerNotRunning if no Docker socket
// is found or the client cannot be created.
func NewClient() (*Client, error) {
	// Step 1: An explicit DOCKER_HOST wins. The SDK parses the connection
	// string itself.
	if host := os.Getenv("DOCKER_HOST"); host != "" {
		return newClientWithHost(host)
	}

	// Step 2: Fall back to the default socket locations of the platform
	// this binary was built for.
	host, err := detectDockerHost(runtime.GOOS)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "Docker socket not found", err)
	}
	return newClientWithHost(host)
}

// newClientWithHost creates a Docker client connected to host, e.g.
// "unix:///var/run/docker.sock" or "npipe:////./pipe/docker_engine".
func newClientWithHost(host string) (*Client, error) {
	// API version negotiation lets one binary talk to older and newer
	// daemons without pinning DOCKER_API_VERSION.
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}
	return &Client{inner: c}, nil
}

// NewClientFromAPI wraps an existing API implementation, such as a fake
// in tests.
func NewClientFromAPI(api API) *Client {
	return &Client{inner: api}
}

// detectDockerHost determines the Docker socket for goos. Socket files are
// only checked for existence; Ping verifies that a daemon is listening.
func detectDockerHost(goos string) (string, error) {
	switch goos {
	case "linux":
		return detectUnixSocket([]string{"/var/run/docker.sock"})

	case "darwin":
		// Docker Desktop creates /var/run/docker.sock only when the
		// privileged helper is enabled; the per-user socket is the fallback.
		paths := []string{"/var/run/docker.sock"}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, ".docker", "run", "docker.sock"))
		}
		return detectUnixSocket(paths)

	case "windows":
		// os.Stat does not work on named pipes, so probe with a short dial.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, time.Second)
		if err != nil {
			return "", errors.Wrapf(err, "Docker named pipe not found at %s", pipePath)
		}
		conn.Close()
		return "npipe://" + pipePath, nil

	default:
		return "", errors.Errorf("unsupported platform: %s", goos)
	}
}

// detectUnixSocket returns the host URI of the first path that exists.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", errors.Errorf("Docker socket not found at any of %v, is Docker running?", paths)
}

// Ping verifies that the Docker daemon is reachable, waiting at most
// defaultPingTimeout.
//
// Returns a model.CLIError with ExitDockerNotRunning if the daemon does
// not respond.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker daemon is not responding, is Docker running?",
			err,
		)
	}
	return nil
}

// Close releases the resources held by the client. It is safe to call
// more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the underlying SDK client for operations this wrapper
// does not expose.
func (c *Client) Inner() API {
	return c.inner
}
