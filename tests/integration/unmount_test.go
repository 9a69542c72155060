//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kriansa/aix-mount/internal/reconcile"
)

func TestUnmount_NotMounted(t *testing.T) {
	name := uniqueMountPoint(t)
	createMount(t, name, reconcile.EnsurePresent)

	out, err := testEngine.Apply(context.Background(), reconcile.Entry{Name: name, Ensure: reconcile.EnsureUnmounted})
	require.NoError(t, err, "unmount not-mounted should be idempotent")
	assert.False(t, out.Changed())
}

func TestUnmount_NonExistent(t *testing.T) {
	err := testProvider.Unmount(context.Background(), mountBasePath+"/nonexistent_12345")
	assert.Error(t, err, "unmount nonexistent mount point should fail")
}
