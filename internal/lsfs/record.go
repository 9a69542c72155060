// Package lsfs reads the inventory that AIX keeps in /etc/filesystems, as
// reported by `lsfs -c`.
package lsfs

import "strings"

// Record is one lsfs stanza keyed by lowercase attribute name
// (mountpoint, device, vfs, nodename, type, size, options, automount, acct).
type Record map[string]string

// MountPoint returns the stanza's mount point.
func (r Record) MountPoint() string {
	return r["mountpoint"]
}

// NotFound reports whether lsfs output or error text says that the
// requested mount point has no stanza.
func NotFound(output string) bool {
	return strings.Contains(output, "No record matching")
}
