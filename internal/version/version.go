package version

import (
	"fmt"
	"runtime"
)

// Name is the program name used in help and version output
const Name = "aix-mount"

// Set via ldflags at build time:
//
//	-X github.com/kriansa/aix-mount/internal/version.Version=v1.2.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s, %s/%s)",
		Name, Version, Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
