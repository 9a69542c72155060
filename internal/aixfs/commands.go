package aixfs

import (
	"fmt"
	"strings"
)

// ListOneCommand lists a single mount point in colon format.
func ListOneCommand(t Tools, name string) []string {
	return []string{t.List, "-c", name}
}

// ListAllCommand lists every mount point in colon format.
func ListAllCommand(t Tools) []string {
	return []string{t.List, "-c"}
}

// CreateCommand builds the crfs invocation for a new mount point.
func CreateCommand(t Tools, name string, desired Properties) ([]string, error) {
	args, err := Encode(name, desired)
	if err != nil {
		return nil, err
	}
	return append([]string{t.Create, "-m", name}, args...), nil
}

// DeleteCommand builds the rmfs invocation. Callers must run CheckDelete first.
func DeleteCommand(t Tools, name string) []string {
	return []string{t.Delete, name}
}

// MountCommand and UnmountCommand rely on the /etc/filesystems stanza
// for everything but the mount point.
func MountCommand(t Tools, name string) []string {
	return []string{t.Mount, name}
}

func UnmountCommand(t Tools, name string) []string {
	return []string{t.Umount, name}
}

// LookupFunc returns the current observed state of a mount point, or nil
// when it does not exist.
type LookupFunc func() (Properties, error)

// ModifyCommand builds the command that applies changes to an existing
// mount point. changes holds only the properties that differ, with their
// desired values. A nil command with a nil error means nothing to do.
//
// chfs cannot change the remote side of an NFS mount, so those changes go
// through chnfsmnt, which names the host -h rather than -n.
func ModifyCommand(t Tools, name string, changes Properties, lookup LookupFunc) ([]string, error) {
	switch {
	case strings.Contains(changes[PropDevice], ":"):
		args, err := Encode(name, changes)
		if err != nil {
			return nil, err
		}
		return append([]string{t.ChNFSMnt, "-f", name}, remapNFS(args)...), nil

	case strings.HasPrefix(changes[PropFSType], "nfs"):
		current, err := lookup()
		if err != nil {
			return nil, fmt.Errorf("mount %s: look up current device: %w", name, err)
		}
		if current == nil {
			return nil, fmt.Errorf("mount %s: cannot convert to nfs, mount point does not exist", name)
		}
		working := changes.Clone()
		if dev, ok := current[PropDevice]; ok {
			working[PropDevice] = dev
		}
		args, err := Encode(name, working)
		if err != nil {
			return nil, err
		}
		return append([]string{t.ChNFSMnt, "-d", name}, remapNFS(args)...), nil

	case changes.Has(PropFSType):
		return nil, configError(name, "cannot change the fstype in place")
	}

	args, err := Encode(name, changes)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, nil
	}
	cmd := append([]string{t.Modify}, args...)
	return append(cmd, name), nil
}

// remapNFS rewrites the crfs/chfs flag letters that chnfsmnt spells
// differently.
func remapNFS(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch a {
		case "-n":
			out[i] = "-h"
		case "-V":
			out[i] = "-m"
		default:
			out[i] = a
		}
	}
	return out
}
