package mount

import (
	"context"
	"fmt"
	"path"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/log"
	"github.com/kriansa/aix-mount/internal/runner"
)

// CommandMounter implements Mounter with the mount and umount commands
type CommandMounter struct {
	runner runner.Runner
	tools  aixfs.Tools
}

// NewCommandMounter creates a mounter that runs through r
func NewCommandMounter(r runner.Runner, tools aixfs.Tools) *CommandMounter {
	return &CommandMounter{
		runner: r,
		tools:  tools,
	}
}

// Mount mounts the stanza for target
func (m *CommandMounter) Mount(ctx context.Context, target string) error {
	log.Debug("mounting filesystem", "target", target)

	if _, err := m.runner.Run(ctx, aixfs.MountCommand(m.tools, target)); err != nil {
		return fmt.Errorf("mount %s: %w", target, err)
	}

	log.Debug("mounted successfully", "target", target)
	return nil
}

// Unmount unmounts the target directory
func (m *CommandMounter) Unmount(ctx context.Context, target string) error {
	log.Debug("unmounting", "target", target)

	if _, err := m.runner.Run(ctx, aixfs.UnmountCommand(m.tools, target)); err != nil {
		return fmt.Errorf("unmount %s: %w", target, err)
	}

	log.Debug("unmounted successfully", "target", target)
	return nil
}

// IsMounted checks if the target is mounted
func (m *CommandMounter) IsMounted(ctx context.Context, target string) (bool, error) {
	entries, err := m.Table(ctx)
	if err != nil {
		return false, err
	}

	want := path.Clean(target)
	for _, e := range entries {
		if path.Clean(e.MountPoint) == want {
			return true, nil
		}
	}

	return false, nil
}

// Table returns the live mount table
func (m *CommandMounter) Table(ctx context.Context) ([]Entry, error) {
	output, err := m.runner.Run(ctx, []string{m.tools.Mount})
	if err != nil {
		return nil, fmt.Errorf("unable to list mounts: %w", err)
	}
	return ParseTable(string(output)), nil
}
