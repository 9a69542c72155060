package mount

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/runner"
)

const sampleTable = `  node       mounted        mounted over    vfs       date        options
-------- ---------------  ---------------  ------ ------------ ---------------
         /dev/hd4         /                jfs2   Jul 05 10:00 rw,log=/dev/hd8
         /dev/hd1         /home            jfs2   Jul 05 10:00 rw,log=/dev/hd8
nfsserv  /export/data     /mnt/data        nfs3   Jul 05 10:01 bg,hard,intr
         /proc            /proc            procfs Jul 05 10:00 rw
`

func TestParseTable(t *testing.T) {
	entries := ParseTable(sampleTable)
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{
		Device:     "/dev/hd4",
		MountPoint: "/",
		VFS:        "jfs2",
		Options:    "rw,log=/dev/hd8",
	}, entries[0])

	assert.Equal(t, Entry{
		Node:       "nfsserv",
		Device:     "/export/data",
		MountPoint: "/mnt/data",
		VFS:        "nfs3",
		Options:    "bg,hard,intr",
	}, entries[2])
}

func TestParseTableSkipsGarbage(t *testing.T) {
	entries := ParseTable("\nnode mounted\n         /dev/x\n")
	assert.Empty(t, entries)
}

func TestCommandMounter(t *testing.T) {
	tools := aixfs.DefaultTools()
	fake := runner.NewFake()
	fake.On([]string{"mount"}, runner.Response{Output: sampleTable})
	m := NewCommandMounter(fake, tools)
	ctx := context.Background()

	mounted, err := m.IsMounted(ctx, "/home/")
	require.NoError(t, err)
	assert.True(t, mounted)

	mounted, err = m.IsMounted(ctx, "/data")
	require.NoError(t, err)
	assert.False(t, mounted)

	require.NoError(t, m.Mount(ctx, "/data"))
	require.NoError(t, m.Unmount(ctx, "/home"))
	assert.True(t, fake.Ran([]string{"mount", "/data"}))
	assert.True(t, fake.Ran([]string{"umount", "/home"}))
}

func TestCommandMounterErrors(t *testing.T) {
	fake := runner.NewFake()
	fake.On([]string{"umount", "/home"}, runner.Response{Output: "umount: 0506-349 Cannot unmount /home: The requested resource is busy.", Code: 1})
	fake.On([]string{"mount"}, runner.Response{Code: 2})
	m := NewCommandMounter(fake, aixfs.DefaultTools())

	err := m.Unmount(context.Background(), "/home")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")

	_, err = m.IsMounted(context.Background(), "/home")
	assert.Error(t, err)
}
