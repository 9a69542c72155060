// Package provider manages AIX mount points: it queries them with lsfs,
// changes them with crfs/chfs/chnfsmnt/rmfs and mounts them, using the
// commands built by package aixfs.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/log"
	"github.com/kriansa/aix-mount/internal/lsfs"
	"github.com/kriansa/aix-mount/internal/mount"
	"github.com/kriansa/aix-mount/internal/runner"
)

// FilesystemsPath is the AIX stanza file that lsfs and crfs maintain.
const FilesystemsPath = "/etc/filesystems"

// Options configures a Provider
type Options struct {
	Tools aixfs.Tools
	// DryRun logs mutating commands instead of running them. Queries still run.
	DryRun bool
	// BackupDir, when set, receives a copy of /etc/filesystems before every
	// create, modify or delete.
	BackupDir string
	// Planned, when set, receives every command skipped by dry-run.
	Planned func(argv []string)
}

// Mount is a mount point together with its observed properties
type Mount struct {
	Name       string
	Properties aixfs.Properties
}

// Provider manages mount points on one AIX host
type Provider struct {
	runner  runner.Runner
	mounter mount.Mounter
	opts    Options
	now     func() time.Time
}

// New creates a new provider
func New(r runner.Runner, m mount.Mounter, opts Options) *Provider {
	return &Provider{
		runner:  r,
		mounter: m,
		opts:    opts,
		now:     time.Now,
	}
}

// Tools returns the command paths in use
func (p *Provider) Tools() aixfs.Tools {
	return p.opts.Tools
}

// Get returns the observed properties of a mount point.
// Returns nil if it does not exist.
func (p *Provider) Get(ctx context.Context, name string) (aixfs.Properties, error) {
	log.Debug("getting mount point", "name", name)

	output, err := p.runner.Run(ctx, aixfs.ListOneCommand(p.opts.Tools, name))
	if err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) && lsfs.NotFound(string(output)) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mount %s: %w", name, err)
	}

	records, err := lsfs.Parse(string(output))
	if err != nil {
		return nil, fmt.Errorf("get mount %s: %w", name, err)
	}

	for _, rec := range records {
		if rec.MountPoint() == name {
			return aixfs.Decode(name, rec)
		}
	}

	return nil, nil
}

// Exists reports whether the mount point has a stanza
func (p *Provider) Exists(ctx context.Context, name string) (bool, error) {
	props, err := p.Get(ctx, name)
	if err != nil {
		return false, err
	}
	return props != nil, nil
}

// List returns every mount point. Stanzas that cannot be decoded are
// skipped and logged.
func (p *Provider) List(ctx context.Context) ([]Mount, error) {
	log.Debug("listing mount points")

	output, err := p.runner.Run(ctx, aixfs.ListAllCommand(p.opts.Tools))
	if err != nil {
		return nil, fmt.Errorf("list mounts: %w", err)
	}

	records, err := lsfs.Parse(string(output))
	if err != nil {
		return nil, fmt.Errorf("list mounts: %w", err)
	}

	var mounts []Mount
	for _, rec := range records {
		name := rec.MountPoint()
		props, err := aixfs.Decode(name, rec)
		if err != nil {
			log.Warn("skipping mount point", "name", name, "error", err)
			continue
		}
		mounts = append(mounts, Mount{Name: name, Properties: props})
	}

	return mounts, nil
}

// Create adds a new stanza with crfs
func (p *Provider) Create(ctx context.Context, name string, desired aixfs.Properties) error {
	log.Debug("creating mount point", "name", name, "properties", desired)

	cmd, err := aixfs.CreateCommand(p.opts.Tools, name, desired)
	if err != nil {
		return err
	}

	p.snapshot(ctx, "create", name)
	if err := p.exec(ctx, cmd); err != nil {
		return fmt.Errorf("create mount %s: %w", name, err)
	}

	log.Info("mount point created", "name", name)
	return nil
}

// Modify applies the changed properties to an existing stanza. It reports
// whether a command was issued.
func (p *Provider) Modify(ctx context.Context, name string, changes aixfs.Properties) (bool, error) {
	log.Debug("modifying mount point", "name", name, "changes", changes)

	cmd, err := aixfs.ModifyCommand(p.opts.Tools, name, changes, func() (aixfs.Properties, error) {
		return p.Get(ctx, name)
	})
	if err != nil {
		return false, err
	}
	if cmd == nil {
		log.Debug("nothing to modify", "name", name)
		return false, nil
	}

	p.snapshot(ctx, "modify", name)
	if err := p.exec(ctx, cmd); err != nil {
		return false, fmt.Errorf("modify mount %s: %w", name, err)
	}

	log.Info("mount point modified", "name", name)
	return true, nil
}

// Delete removes a stanza with rmfs, unmounting first if needed. Local
// filesystems are only removed when force holds the confirmation phrase,
// since rmfs also destroys the logical volume. A missing mount point is not
// an error; Delete then reports false.
func (p *Provider) Delete(ctx context.Context, name, force string) (bool, error) {
	log.Debug("removing mount point", "name", name)

	observed, err := p.Get(ctx, name)
	if err != nil {
		return false, err
	}
	if observed == nil {
		log.Info("mount point already absent", "name", name)
		return false, nil
	}

	if err := aixfs.CheckDelete(name, observed, force); err != nil {
		return false, err
	}

	mounted, err := p.IsMounted(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check mount status: %w", err)
	}
	if mounted {
		if err := p.Unmount(ctx, name); err != nil {
			return false, err
		}
	}

	p.snapshot(ctx, "delete", name)
	if err := p.exec(ctx, aixfs.DeleteCommand(p.opts.Tools, name)); err != nil {
		return false, fmt.Errorf("delete mount %s: %w", name, err)
	}

	log.Info("mount point removed", "name", name)
	return true, nil
}

// Mount mounts the stanza
func (p *Provider) Mount(ctx context.Context, name string) error {
	if p.opts.DryRun {
		p.skip(aixfs.MountCommand(p.opts.Tools, name))
		return nil
	}
	if err := p.mounter.Mount(ctx, name); err != nil {
		return err
	}
	log.Info("mount point mounted", "name", name)
	return nil
}

// Unmount unmounts the mount point
func (p *Provider) Unmount(ctx context.Context, name string) error {
	if p.opts.DryRun {
		p.skip(aixfs.UnmountCommand(p.opts.Tools, name))
		return nil
	}
	if err := p.mounter.Unmount(ctx, name); err != nil {
		return err
	}
	log.Info("mount point unmounted", "name", name)
	return nil
}

// IsMounted reports whether the mount point is currently mounted
func (p *Provider) IsMounted(ctx context.Context, name string) (bool, error) {
	return p.mounter.IsMounted(ctx, name)
}

// Dump always reports 0; AIX has no dump ordering.
func (p *Provider) Dump() string {
	return aixfs.IgnoredValue
}

// Pass always reports 0; AIX has no fsck pass ordering.
func (p *Provider) Pass() string {
	return aixfs.IgnoredValue
}

// SetDump accepts and ignores a dump value.
func (p *Provider) SetDump(name, value string) {
	log.Info("'dump' parameter is ignored on AIX", "name", name, "value", value)
}

// SetPass accepts and ignores a pass value.
func (p *Provider) SetPass(name, value string) {
	log.Info("'pass' parameter is ignored on AIX", "name", name, "value", value)
}

// exec runs a mutating command, or only logs it in dry-run mode
func (p *Provider) exec(ctx context.Context, argv []string) error {
	if p.opts.DryRun {
		p.skip(argv)
		return nil
	}
	_, err := p.runner.Run(ctx, argv)
	return err
}

func (p *Provider) skip(argv []string) {
	log.Info("dry run", "command", strings.Join(argv, " "))
	if p.opts.Planned != nil {
		p.opts.Planned(argv)
	}
}

// snapshot copies /etc/filesystems into the backup directory. Failures are
// logged; they never block the change itself.
func (p *Provider) snapshot(ctx context.Context, op, name string) {
	if p.opts.BackupDir == "" || p.opts.DryRun {
		return
	}

	data, err := p.runner.ReadFile(ctx, FilesystemsPath)
	if err != nil {
		log.Warn("failed to read filesystems for backup", "error", err)
		return
	}

	if err := os.MkdirAll(p.opts.BackupDir, 0o755); err != nil {
		log.Warn("failed to create backup directory", "path", p.opts.BackupDir, "error", err)
		return
	}

	file := fmt.Sprintf("filesystems.%s.%s", p.now().UTC().Format("20060102T150405Z"), op)
	path := filepath.Join(p.opts.BackupDir, file)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Warn("failed to write filesystems backup", "path", path, "error", err)
		return
	}

	log.Debug("filesystems backed up", "name", name, "path", path)
}
