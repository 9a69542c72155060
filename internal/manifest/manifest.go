// Package manifest loads declared mount points from a TOML file:
//
//	[[mount]]
//	name    = "/mnt/data"
//	ensure  = "mounted"
//	device  = "nfsserver:/export/data"
//	fstype  = "nfs"
//	options = "bg,hard,intr"
//	atboot  = true
package manifest

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/reconcile"
	"github.com/kriansa/aix-mount/internal/validation"
)

// Manifest is the file layout
type Manifest struct {
	Mounts []Mount `toml:"mount"`
}

// Mount is one [[mount]] table. Pointer fields distinguish "unset" from
// the zero value.
type Mount struct {
	Name     string  `toml:"name"`
	Ensure   string  `toml:"ensure"`
	Force    string  `toml:"force"`
	Device   *string `toml:"device"`
	Nodename *string `toml:"nodename"`
	FSType   *string `toml:"fstype"`
	Options  *string `toml:"options"`
	Size     any     `toml:"size"`
	Volume   *string `toml:"volume"`
	AtBoot   *bool   `toml:"atboot"`
	Dump     *int    `toml:"dump"`
	Pass     *int    `toml:"pass"`
}

// Load reads and validates a manifest file
func Load(path string) ([]reconcile.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest content
func Parse(data []byte) ([]reconcile.Entry, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse manifest: unknown key %q", undecoded[0].String())
	}

	seen := make(map[string]bool, len(m.Mounts))
	entries := make([]reconcile.Entry, 0, len(m.Mounts))
	for i, mnt := range m.Mounts {
		entry, err := mnt.Entry()
		if err != nil {
			return nil, fmt.Errorf("mount #%d: %w", i+1, err)
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("mount #%d: duplicate mount point %s", i+1, entry.Name)
		}
		seen[entry.Name] = true
		entries = append(entries, entry)
	}

	return entries, nil
}

// Entry converts the table into a validated reconcile entry
func (m Mount) Entry() (reconcile.Entry, error) {
	if err := validation.ValidateMountPoint(m.Name); err != nil {
		return reconcile.Entry{}, err
	}

	ensure := reconcile.Ensure(m.Ensure)
	if ensure == "" {
		ensure = reconcile.DefaultEnsure
	}
	if !reconcile.ValidEnsure(ensure) {
		return reconcile.Entry{}, fmt.Errorf("mount %s: unknown ensure %q", m.Name, m.Ensure)
	}

	props := aixfs.Properties{}
	setString(props, aixfs.PropDevice, m.Device)
	setString(props, aixfs.PropNodename, m.Nodename)
	setString(props, aixfs.PropFSType, m.FSType)
	setString(props, aixfs.PropOptions, m.Options)
	setString(props, aixfs.PropVolume, m.Volume)
	if m.Size != nil {
		size, err := formatSize(m.Size)
		if err != nil {
			return reconcile.Entry{}, fmt.Errorf("mount %s: %w", m.Name, err)
		}
		props[aixfs.PropSize] = size
	}
	if m.AtBoot != nil {
		props[aixfs.PropAtBoot] = aixfs.FormatBool(*m.AtBoot)
	}
	if m.Dump != nil {
		props[aixfs.PropDump] = strconv.Itoa(*m.Dump)
	}
	if m.Pass != nil {
		props[aixfs.PropPass] = strconv.Itoa(*m.Pass)
	}

	if err := validation.ValidateProperties(m.Name, props); err != nil {
		return reconcile.Entry{}, err
	}

	return reconcile.Entry{
		Name:       m.Name,
		Ensure:     ensure,
		Properties: props,
		Force:      m.Force,
	}, nil
}

func setString(props aixfs.Properties, key aixfs.Property, v *string) {
	if v != nil {
		props[key] = *v
	}
}

// formatSize accepts either an integer (512-byte blocks) or a string such
// as "2G".
func formatSize(v any) (string, error) {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10), nil
	case string:
		return val, nil
	default:
		return "", fmt.Errorf("size must be an integer or a string, got %T", v)
	}
}
