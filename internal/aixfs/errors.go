package aixfs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when a requested state cannot be
	// expressed on AIX.
	ErrConfiguration = errors.New("configuration error")

	// ErrDestructiveAction is returned when a delete would destroy a logical
	// volume and the caller did not confirm it.
	ErrDestructiveAction = errors.New("destructive action blocked")
)

// ForcePhrase must be supplied (case-insensitively) to delete a local mount.
const ForcePhrase = "yes, i am sure"

func configError(name, format string, args ...any) error {
	return fmt.Errorf("%w: mount %s: %s", ErrConfiguration, name, fmt.Sprintf(format, args...))
}
