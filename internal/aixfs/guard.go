package aixfs

import (
	"fmt"
	"strings"
)

// Protected reports whether removing the mount point would also remove a
// local logical volume. Only NFS mounts with a remote device are safe.
func Protected(observed Properties) bool {
	if fstype, ok := observed[PropFSType]; ok && !strings.HasPrefix(fstype, "nfs") {
		return true
	}
	if dev, ok := observed[PropDevice]; ok && !strings.Contains(dev, ":") {
		return true
	}
	return false
}

// CheckDelete refuses to delete a protected mount point unless force holds
// the confirmation phrase.
func CheckDelete(name string, observed Properties, force string) error {
	if !Protected(observed) || strings.EqualFold(force, ForcePhrase) {
		return nil
	}
	return fmt.Errorf("%w: cowardly refusing to remove mount %s: "+
		"it will silently delete the LV and remove all data; "+
		"set force to 'Yes, I am sure' to force removal", ErrDestructiveAction, name)
}
