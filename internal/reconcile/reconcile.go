// Package reconcile converges mount points towards a declared state.
package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/hashicorp/go-multierror"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/log"
)

// Ensure is the declared lifecycle state of a mount point.
type Ensure string

const (
	EnsureDefined   Ensure = "defined"
	EnsurePresent   Ensure = "present"
	EnsureMounted   Ensure = "mounted"
	EnsureUnmounted Ensure = "unmounted"
	EnsureAbsent    Ensure = "absent"
)

// DefaultEnsure is used when an entry leaves Ensure empty.
const DefaultEnsure = EnsureMounted

// ValidEnsure reports whether e is a known state.
func ValidEnsure(e Ensure) bool {
	switch e {
	case EnsureDefined, EnsurePresent, EnsureMounted, EnsureUnmounted, EnsureAbsent:
		return true
	}
	return false
}

// Entry declares the desired state of one mount point.
type Entry struct {
	Name       string
	Ensure     Ensure
	Properties aixfs.Properties
	// Force confirms removal of a local filesystem.
	Force string
}

// Action is one change made while converging an entry.
type Action string

const (
	ActionCreated   Action = "created"
	ActionModified  Action = "modified"
	ActionDeleted   Action = "deleted"
	ActionMounted   Action = "mounted"
	ActionUnmounted Action = "unmounted"
)

// Outcome records what Apply did for an entry.
type Outcome struct {
	Name    string
	Actions []Action
}

// Changed reports whether anything was done.
func (o Outcome) Changed() bool {
	return len(o.Actions) > 0
}

func (o Outcome) String() string {
	if !o.Changed() {
		return o.Name + ": unchanged"
	}
	parts := make([]string, len(o.Actions))
	for i, a := range o.Actions {
		parts[i] = string(a)
	}
	return o.Name + ": " + strings.Join(parts, ", ")
}

// Provider is the set of host operations the engine needs.
type Provider interface {
	Get(ctx context.Context, name string) (aixfs.Properties, error)
	Create(ctx context.Context, name string, desired aixfs.Properties) error
	Modify(ctx context.Context, name string, changes aixfs.Properties) (bool, error)
	Delete(ctx context.Context, name, force string) (bool, error)
	Mount(ctx context.Context, name string) error
	Unmount(ctx context.Context, name string) error
	IsMounted(ctx context.Context, name string) (bool, error)
	SetDump(name, value string)
	SetPass(name, value string)
}

// Engine applies entries through a Provider
type Engine struct {
	provider Provider
}

// New creates an engine
func New(p Provider) *Engine {
	return &Engine{provider: p}
}

// createOnly lists properties lsfs never reports. They are used when a
// stanza is created and ignored when comparing.
var createOnly = map[aixfs.Property]bool{
	aixfs.PropVolume: true,
}

// Changes returns the desired properties whose value differs from the
// observed one. dump, pass and create-only properties are never changes.
func Changes(desired, observed aixfs.Properties) aixfs.Properties {
	changes := aixfs.Properties{}
	for key, want := range desired {
		if aixfs.Ignored(key) || createOnly[key] {
			continue
		}
		have, ok := observed[key]
		if ok && equal(key, want, have) {
			continue
		}
		changes[key] = want
	}
	return changes
}

func equal(key aixfs.Property, want, have string) bool {
	switch key {
	case aixfs.PropAtBoot:
		w, err1 := strconv.ParseBool(want)
		h, err2 := strconv.ParseBool(have)
		return err1 == nil && err2 == nil && w == h
	case aixfs.PropSize:
		w, err1 := sizeInBlocks(want)
		h, err2 := sizeInBlocks(have)
		if err1 != nil || err2 != nil {
			return want == have
		}
		return w == h
	}
	return want == have
}

// sizeInBlocks converts a crfs/chfs size into 512-byte blocks. Bare
// numbers are already blocks; suffixed sizes ("512M", "2G") are binary.
func sizeInBlocks(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	b, err := units.RAMInBytes(s)
	if err != nil {
		return 0, err
	}
	return b / 512, nil
}

// Apply converges a single entry.
func (e *Engine) Apply(ctx context.Context, entry Entry) (Outcome, error) {
	out := Outcome{Name: entry.Name}
	ensure := entry.Ensure
	if ensure == "" {
		ensure = DefaultEnsure
	}
	if !ValidEnsure(ensure) {
		return out, fmt.Errorf("%w: mount %s: unknown ensure %q", aixfs.ErrConfiguration, entry.Name, ensure)
	}

	log.Debug("applying entry", "name", entry.Name, "ensure", ensure)

	if ensure == EnsureAbsent {
		deleted, err := e.provider.Delete(ctx, entry.Name, entry.Force)
		if err != nil {
			return out, err
		}
		if deleted {
			out.Actions = append(out.Actions, ActionDeleted)
		}
		return out, nil
	}

	for key, value := range entry.Properties {
		switch key {
		case aixfs.PropDump:
			e.provider.SetDump(entry.Name, value)
		case aixfs.PropPass:
			e.provider.SetPass(entry.Name, value)
		}
	}

	observed, err := e.provider.Get(ctx, entry.Name)
	if err != nil {
		return out, err
	}

	if observed == nil {
		if err := e.provider.Create(ctx, entry.Name, entry.Properties); err != nil {
			return out, err
		}
		out.Actions = append(out.Actions, ActionCreated)
	} else if changes := Changes(entry.Properties, observed); len(changes) > 0 {
		log.Debug("properties differ", "name", entry.Name, "changes", changes)
		modified, err := e.provider.Modify(ctx, entry.Name, changes)
		if err != nil {
			return out, err
		}
		if modified {
			out.Actions = append(out.Actions, ActionModified)
		}
	}

	switch ensure {
	case EnsureMounted:
		mounted, err := e.provider.IsMounted(ctx, entry.Name)
		if err != nil {
			return out, err
		}
		if !mounted {
			if err := e.provider.Mount(ctx, entry.Name); err != nil {
				return out, err
			}
			out.Actions = append(out.Actions, ActionMounted)
		}
	case EnsureUnmounted:
		mounted, err := e.provider.IsMounted(ctx, entry.Name)
		if err != nil {
			return out, err
		}
		if mounted {
			if err := e.provider.Unmount(ctx, entry.Name); err != nil {
				return out, err
			}
			out.Actions = append(out.Actions, ActionUnmounted)
		}
	}

	return out, nil
}

// ApplyAll applies entries in order. A failing entry does not stop the
// others; all failures are returned together.
func (e *Engine) ApplyAll(ctx context.Context, entries []Entry) ([]Outcome, error) {
	var (
		outcomes []Outcome
		result   *multierror.Error
	)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}

		out, err := e.Apply(ctx, entry)
		if err != nil {
			log.Error("failed to apply entry", "name", entry.Name, "error", err)
			result = multierror.Append(result, err)
			continue
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, result.ErrorOrNil()
}
