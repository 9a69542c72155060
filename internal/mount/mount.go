// Package mount mounts and unmounts filesystems defined in /etc/filesystems
// and inspects the live mount table.
package mount

import "context"

// Mounter defines the interface for mount/unmount operations
type Mounter interface {
	// Mount mounts the stanza for the given mount point
	Mount(ctx context.Context, target string) error
	// Unmount unmounts the target directory
	Unmount(ctx context.Context, target string) error
	// IsMounted checks if the target is mounted
	IsMounted(ctx context.Context, target string) (bool, error)
}

// Entry is one row of the live mount table.
type Entry struct {
	// Node is the remote host for NFS mounts, empty for local ones
	Node       string
	Device     string
	MountPoint string
	VFS        string
	Options    string
}
