package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kriansa/aix-mount/internal/log"
)

// Local runs commands on this machine.
type Local struct{}

// NewLocal creates a runner for the local host
func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Run(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	log.Debug("running command", "argv", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, &ExitError{Argv: argv, Code: exitErr.ExitCode(), Output: output}
		}
		return output, fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return output, nil
}

func (l *Local) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (l *Local) Close() error {
	return nil
}
