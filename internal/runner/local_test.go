package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRun(t *testing.T) {
	r := NewLocal()
	out, err := r.Run(context.Background(), []string{"sh", "-c", "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestLocalRunExitError(t *testing.T) {
	r := NewLocal()
	out, err := r.Run(context.Background(), []string{"sh", "-c", "echo 'No record matching' >&2; exit 3"})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, string(out), "No record matching")
	assert.Contains(t, exitErr.Error(), "exit status 3")
}

func TestLocalRunMissingBinary(t *testing.T) {
	r := NewLocal()
	_, err := r.Run(context.Background(), []string{"/nonexistent/lsfs", "-c"})
	require.Error(t, err)

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestLocalRunEmpty(t *testing.T) {
	_, err := NewLocal().Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestLocalReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filesystems")
	require.NoError(t, os.WriteFile(path, []byte("/home:\n\tdev = /dev/hd1\n"), 0o644))

	data, err := NewLocal().ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/dev/hd1")

	_, err = NewLocal().ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	r, err := New(TransportLocal, SSHConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, r)

	_, err = New(TransportSSH, SSHConfig{})
	assert.Error(t, err, "ssh without host must fail")

	_, err = New("telnet", SSHConfig{})
	assert.Error(t, err)
}
