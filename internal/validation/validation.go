package validation

import (
	"fmt"
	"path"
	"regexp"
	"strconv"

	"github.com/kriansa/aix-mount/internal/aixfs"
)

// MaxMountPointLength is the AIX PATH_MAX less the terminating NUL
const MaxMountPointLength = 1023

// mountPointPattern rejects characters that break the lsfs colon format
// or the /etc/filesystems stanza syntax.
var mountPointPattern = regexp.MustCompile(`^/[^:\s"*]*$`)

// ValidateMountPoint validates that a mount point:
// - is an absolute, clean path
// - has no colon, whitespace, quote or asterisk
// - fits in PATH_MAX
func ValidateMountPoint(name string) error {
	if name == "" {
		return fmt.Errorf("mount point must not be empty")
	}

	if len(name) > MaxMountPointLength {
		return fmt.Errorf("mount point must be at most %d characters", MaxMountPointLength)
	}

	if !mountPointPattern.MatchString(name) {
		return fmt.Errorf("mount point %q must be an absolute path without colons, whitespace, quotes or asterisks", name)
	}

	if path.Clean(name) != name {
		return fmt.Errorf("mount point %q is not a clean path (expected %q)", name, path.Clean(name))
	}

	return nil
}

// ValidateProperties checks values that would otherwise only fail on the host
func ValidateProperties(name string, props aixfs.Properties) error {
	if v, ok := props[aixfs.PropOptions]; ok && v == "" {
		return fmt.Errorf("%w: mount %s: parameter options must not be empty", aixfs.ErrConfiguration, name)
	}

	if v, ok := props[aixfs.PropAtBoot]; ok {
		if _, err := strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%w: mount %s: atboot must be a boolean, got %q", aixfs.ErrConfiguration, name, v)
		}
	}

	for _, key := range []aixfs.Property{aixfs.PropDump, aixfs.PropPass} {
		if v, ok := props[key]; ok {
			if _, err := strconv.Atoi(v); err != nil {
				return fmt.Errorf("%w: mount %s: %s must be an integer, got %q", aixfs.ErrConfiguration, name, key, v)
			}
		}
	}

	return nil
}
