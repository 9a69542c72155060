// Package aixfs translates declarative mount properties into the command
// lines understood by the AIX filesystem tools (lsfs, crfs, chfs, chnfsmnt,
// rmfs) and decodes lsfs inventory records back into properties.
//
// Nothing in this package executes commands. Callers receive argv slices
// and hand them to a runner.
package aixfs

import (
	"sort"
	"strconv"
)

// Property is the logical name of a mount property.
type Property string

const (
	PropAtBoot   Property = "atboot"
	PropDevice   Property = "device"
	PropNodename Property = "nodename"
	PropFSType   Property = "fstype"
	PropOptions  Property = "options"
	PropSize     Property = "size"
	PropVolume   Property = "volume"

	// PropDump and PropPass are fstab ordering fields. AIX has no equivalent,
	// so they are accepted and ignored.
	PropDump Property = "dump"
	PropPass Property = "pass"
)

// IgnoredValue is what the inert dump and pass properties always report.
const IgnoredValue = "0"

// Ignored reports whether p is one of the inert legacy properties.
func Ignored(p Property) bool {
	return p == PropDump || p == PropPass
}

// Properties maps logical properties to their values. Booleans are stored
// as "true" or "false".
type Properties map[Property]string

// Clone returns a shallow copy of p.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Has reports whether the property is set.
func (p Properties) Has(key Property) bool {
	_, ok := p[key]
	return ok
}

// Keys returns the set property names in sorted order.
func (p Properties) Keys() []Property {
	keys := make([]Property, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// FormatBool renders a boolean the way Properties stores it.
func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}

// Tools holds the paths of the AIX administration commands.
type Tools struct {
	List     string
	Create   string
	Modify   string
	ChNFSMnt string
	Delete   string
	Mount    string
	Umount   string
}

// DefaultTools returns the stock AIX command locations.
func DefaultTools() Tools {
	return Tools{
		List:     "/usr/sbin/lsfs",
		Create:   "/usr/sbin/crfs",
		Modify:   "/usr/sbin/chfs",
		ChNFSMnt: "/usr/sbin/chnfsmnt",
		Delete:   "/usr/sbin/rmfs",
		Mount:    "mount",
		Umount:   "umount",
	}
}
