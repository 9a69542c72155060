//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/reconcile"
)

// TestMountLifecycle tests the complete lifecycle of a jfs2 mount point:
// create -> list -> get -> mount -> modify -> unmount -> guarded delete ->
// forced delete -> list (verify gone) -> get (verify nil)
func TestMountLifecycle(t *testing.T) {
	ctx := context.Background()
	name := uniqueMountPoint(t)
	cleanupMount(t, name)

	// Step 1: Create without mounting
	t.Run("step1_create", func(t *testing.T) {
		out, err := testEngine.Apply(ctx, jfs2Entry(name, reconcile.EnsurePresent))
		require.NoError(t, err, "create should succeed")
		assert.Equal(t, []reconcile.Action{reconcile.ActionCreated}, out.Actions)
	})

	// Step 2: Verify via List
	t.Run("step2_list_after_create", func(t *testing.T) {
		props := assertMountInList(t, name)
		assert.Equal(t, "jfs2", props[aixfs.PropFSType])
	})

	// Step 3: Verify via Get
	t.Run("step3_get_after_create", func(t *testing.T) {
		props := assertMountExists(t, name)
		assert.Equal(t, "false", props[aixfs.PropAtBoot])
		assertMounted(t, name, false)
	})

	// Step 4: Mount through reconcile
	t.Run("step4_mount", func(t *testing.T) {
		entry := jfs2Entry(name, reconcile.EnsureMounted)
		delete(entry.Properties, aixfs.PropSize)
		out, err := testEngine.Apply(ctx, entry)
		require.NoError(t, err, "mount should succeed")
		assert.Equal(t, []reconcile.Action{reconcile.ActionMounted}, out.Actions)
		assertMounted(t, name, true)
	})

	// Step 5: Change atboot
	t.Run("step5_modify", func(t *testing.T) {
		entry := jfs2Entry(name, reconcile.EnsureMounted)
		delete(entry.Properties, aixfs.PropSize)
		entry.Properties[aixfs.PropAtBoot] = "true"
		out, err := testEngine.Apply(ctx, entry)
		require.NoError(t, err, "modify should succeed")
		assert.Equal(t, []reconcile.Action{reconcile.ActionModified}, out.Actions)

		props := assertMountExists(t, name)
		assert.Equal(t, "true", props[aixfs.PropAtBoot])
	})

	// Step 6: Re-apply is a no-op
	t.Run("step6_idempotent", func(t *testing.T) {
		entry := jfs2Entry(name, reconcile.EnsureMounted)
		delete(entry.Properties, aixfs.PropSize)
		entry.Properties[aixfs.PropAtBoot] = "true"
		out, err := testEngine.Apply(ctx, entry)
		require.NoError(t, err)
		assert.False(t, out.Changed(), "second apply should change nothing: %s", out)
	})

	// Step 7: Unmount
	t.Run("step7_unmount", func(t *testing.T) {
		out, err := testEngine.Apply(ctx, reconcile.Entry{Name: name, Ensure: reconcile.EnsureUnmounted})
		require.NoError(t, err, "unmount should succeed")
		assert.Equal(t, []reconcile.Action{reconcile.ActionUnmounted}, out.Actions)
		assertMounted(t, name, false)
	})

	// Step 8: Delete without force is refused
	t.Run("step8_delete_guarded", func(t *testing.T) {
		_, err := testEngine.Apply(ctx, reconcile.Entry{Name: name, Ensure: reconcile.EnsureAbsent})
		require.Error(t, err)
		assert.True(t, errors.Is(err, aixfs.ErrDestructiveAction))
		assertMountExists(t, name)
	})

	// Step 9: Delete with the confirmation phrase
	t.Run("step9_delete_forced", func(t *testing.T) {
		out, err := testEngine.Apply(ctx, reconcile.Entry{
			Name:   name,
			Ensure: reconcile.EnsureAbsent,
			Force:  "Yes, I am sure",
		})
		require.NoError(t, err, "forced delete should succeed")
		assert.Equal(t, []reconcile.Action{reconcile.ActionDeleted}, out.Actions)
	})

	// Step 10: Verify not in List after delete
	t.Run("step10_list_after_delete", func(t *testing.T) {
		assertMountNotInList(t, name)
	})

	// Step 11: Verify Get returns nothing after delete
	t.Run("step11_get_after_delete", func(t *testing.T) {
		assertMountNotExists(t, name)
	})
}

// TestMountLifecycle_DeleteMounted tests that a forced delete unmounts first
func TestMountLifecycle_DeleteMounted(t *testing.T) {
	ctx := context.Background()
	name := uniqueMountPoint(t)
	createMount(t, name, reconcile.EnsureMounted)
	assertMounted(t, name, true)

	deleted, err := testProvider.Delete(ctx, name, "yes, i am sure")
	require.NoError(t, err)
	assert.True(t, deleted)

	assertMounted(t, name, false)
	assertMountNotExists(t, name)
}
