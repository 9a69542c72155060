// Package runner executes command lines on the managed AIX host, either
// locally or over SSH, and reads files from it.
package runner

import (
	"context"
	"fmt"
	"strings"
)

// Runner runs argv on the managed host and returns the combined output.
type Runner interface {
	// Run executes argv and returns stdout and stderr combined. A non-zero
	// exit is reported as *ExitError, with the output still returned.
	Run(ctx context.Context, argv []string) ([]byte, error)

	// ReadFile returns the contents of a file on the managed host.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// Close releases any connection held by the runner.
	Close() error
}

const (
	TransportLocal = "local"
	TransportSSH   = "ssh"
)

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Argv   []string
	Code   int
	Output []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d (output: %q)",
		strings.Join(e.Argv, " "), e.Code, strings.TrimSpace(string(e.Output)))
}

// New creates a Runner for the given transport.
func New(transport string, sshCfg SSHConfig) (Runner, error) {
	switch transport {
	case TransportLocal:
		return NewLocal(), nil
	case TransportSSH:
		return NewSSH(sshCfg)
	default:
		return nil, fmt.Errorf("unknown transport: %s (use 'local' or 'ssh')", transport)
	}
}
