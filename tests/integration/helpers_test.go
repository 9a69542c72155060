//go:build integration

package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/reconcile"
)

// uniqueMountPoint generates a unique mount point for a test
func uniqueMountPoint(t *testing.T) string {
	name := strings.ToLower(strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	return fmt.Sprintf("%s/%s_%d", mountBasePath, name, time.Now().UnixNano()%10000)
}

// cleanupMount registers cleanup for a mount point at test end
func cleanupMount(t *testing.T, name string) {
	t.Cleanup(func() {
		run("umount %s 2>/dev/null || true", name)
		run("rmfs -r %s 2>/dev/null || true", name)
		run("rmdir %s 2>/dev/null || true", name)
	})
}

// jfs2Entry declares a small jfs2 filesystem in the test volume group
func jfs2Entry(name string, ensure reconcile.Ensure) reconcile.Entry {
	return reconcile.Entry{
		Name:   name,
		Ensure: ensure,
		Properties: aixfs.Properties{
			aixfs.PropFSType: "jfs2",
			aixfs.PropSize:   "64M",
			aixfs.PropVolume: testVG,
			aixfs.PropAtBoot: "false",
		},
	}
}

// createMount applies a jfs2 entry and registers cleanup
func createMount(t *testing.T, name string, ensure reconcile.Ensure) {
	t.Helper()
	cleanupMount(t, name)
	_, err := testEngine.Apply(context.Background(), jfs2Entry(name, ensure))
	require.NoError(t, err, "create mount %s should succeed", name)
}

// assertMountExists verifies a mount point exists using Get
func assertMountExists(t *testing.T, name string) aixfs.Properties {
	t.Helper()
	props, err := testProvider.Get(context.Background(), name)
	require.NoError(t, err, "get %s should succeed", name)
	require.NotNil(t, props, "mount %s should exist", name)
	return props
}

// assertMountNotExists verifies a mount point does not exist using Get
func assertMountNotExists(t *testing.T, name string) {
	t.Helper()
	props, err := testProvider.Get(context.Background(), name)
	require.NoError(t, err, "get %s should succeed", name)
	require.Nil(t, props, "mount %s should not exist", name)
}

// assertMountInList verifies a mount point appears in List
func assertMountInList(t *testing.T, name string) aixfs.Properties {
	t.Helper()
	mounts, err := testProvider.List(context.Background())
	require.NoError(t, err, "list should succeed")

	for _, m := range mounts {
		if m.Name == name {
			return m.Properties
		}
	}
	t.Fatalf("mount %s not found in list", name)
	return nil
}

// assertMountNotInList verifies a mount point does not appear in List
func assertMountNotInList(t *testing.T, name string) {
	t.Helper()
	mounts, err := testProvider.List(context.Background())
	require.NoError(t, err, "list should succeed")

	for _, m := range mounts {
		if m.Name == name {
			t.Fatalf("mount %s should not be in list", name)
		}
	}
}

// assertMounted verifies the live mount state
func assertMounted(t *testing.T, name string, want bool) {
	t.Helper()
	mounted, err := testProvider.IsMounted(context.Background(), name)
	require.NoError(t, err, "mount table should be readable")
	require.Equal(t, want, mounted, "mounted state of %s", name)
}
