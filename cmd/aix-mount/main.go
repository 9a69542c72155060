package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alessio/shellescape"
	"github.com/urfave/cli/v3"

	"github.com/kriansa/aix-mount/internal/config"
	"github.com/kriansa/aix-mount/internal/log"
	"github.com/kriansa/aix-mount/internal/manifest"
	"github.com/kriansa/aix-mount/internal/mount"
	"github.com/kriansa/aix-mount/internal/provider"
	"github.com/kriansa/aix-mount/internal/reconcile"
	"github.com/kriansa/aix-mount/internal/runner"
	"github.com/kriansa/aix-mount/internal/validation"
	"github.com/kriansa/aix-mount/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  version.Name,
		Usage: "Manage AIX mount points with lsfs, crfs, chfs and rmfs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file path",
				Value:   config.DefaultConfigPath,
			},
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Usage:   "Where to run commands: local or ssh",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "AIX host to manage over ssh",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "SSH user",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Log changes instead of applying them",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text or json",
				Value: "text",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"V"},
				Usage:   "Print version information",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("version") {
				fmt.Println(version.String())
				return nil
			}
			return fmt.Errorf("no command given (see --help)")
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every mount point defined in /etc/filesystems",
				Action: withApp(false, listAction),
			},
			{
				Name:      "show",
				Usage:     "Show the properties of one mount point",
				ArgsUsage: "<mountpoint>",
				Action:    withApp(false, showAction),
			},
			{
				Name:      "apply",
				Usage:     "Converge the host towards a manifest",
				ArgsUsage: "<manifest>",
				Action:    withApp(false, applyAction),
			},
			{
				Name:      "plan",
				Usage:     "Print the commands apply would run",
				ArgsUsage: "<manifest>",
				Action:    withApp(true, applyAction),
			},
			{
				Name:      "remove",
				Usage:     "Remove a mount point",
				ArgsUsage: "<mountpoint>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "force",
						Usage: "Confirmation phrase ('Yes, I am sure') required to remove a local filesystem",
					},
				},
				Action: withApp(false, removeAction),
			},
			{
				Name:      "mount",
				Usage:     "Mount a defined mount point",
				ArgsUsage: "<mountpoint>",
				Action:    withApp(false, mountAction),
			},
			{
				Name:      "unmount",
				Usage:     "Unmount a mount point",
				ArgsUsage: "<mountpoint>",
				Action:    withApp(false, unmountAction),
			},
		},
	}
}

// app holds the components shared by every subcommand
type app struct {
	cfg      *config.Config
	runner   runner.Runner
	provider *provider.Provider
	engine   *reconcile.Engine
	// plan prints skipped commands instead of the apply summary
	plan bool
}

func withApp(plan bool, fn func(context.Context, *cli.Command, *app) error) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := newApp(cmd, plan)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.runner.Close(); err != nil {
				log.Warn("failed to close runner", "error", err)
			}
		}()
		return fn(ctx, cmd, a)
	}
}

func newApp(cmd *cli.Command, plan bool) (*app, error) {
	// Setup logging
	log.Setup(cmd.Bool("verbose"))
	if err := log.SetFormat(cmd.String("log-format")); err != nil {
		return nil, err
	}

	// Load config file
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Merge CLI flags (CLI takes precedence)
	cfg.Merge(
		cmd.String("transport"),
		cmd.String("host"),
		cmd.String("user"),
		cmd.Bool("dry-run") || plan,
	)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Debug("configuration loaded",
		"transport", cfg.Transport,
		"host", cfg.SSH.Host,
		"dry_run", cfg.DryRun,
		"backup_dir", cfg.BackupDir,
	)

	r, err := runner.New(cfg.Transport, cfg.SSHConfig())
	if err != nil {
		return nil, fmt.Errorf("create runner: %w", err)
	}

	opts := provider.Options{
		Tools:     cfg.AIXTools(),
		DryRun:    cfg.DryRun,
		BackupDir: cfg.BackupDir,
	}
	if plan {
		opts.Planned = func(argv []string) {
			fmt.Println(shellescape.QuoteCommand(argv))
		}
	}

	p := provider.New(r, mount.NewCommandMounter(r, opts.Tools), opts)

	return &app{
		cfg:      cfg,
		runner:   r,
		provider: p,
		engine:   reconcile.New(p),
		plan:     plan,
	}, nil
}

func mountPointArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("expected exactly one mount point argument")
	}
	name := cmd.Args().First()
	if err := validation.ValidateMountPoint(name); err != nil {
		return "", err
	}
	return name, nil
}

func listAction(ctx context.Context, _ *cli.Command, a *app) error {
	mounts, err := a.provider.List(ctx)
	if err != nil {
		return err
	}
	fmt.Println(formatMounts(mounts))
	return nil
}

func showAction(ctx context.Context, cmd *cli.Command, a *app) error {
	name, err := mountPointArg(cmd)
	if err != nil {
		return err
	}

	props, err := a.provider.Get(ctx, name)
	if err != nil {
		return err
	}
	if props == nil {
		return fmt.Errorf("mount point %s is not defined", name)
	}

	mounted, err := a.provider.IsMounted(ctx, name)
	if err != nil {
		return err
	}

	fmt.Println(formatProperties(name, props, mounted))
	return nil
}

func applyAction(ctx context.Context, cmd *cli.Command, a *app) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one manifest argument")
	}

	entries, err := manifest.Load(cmd.Args().First())
	if err != nil {
		return err
	}

	log.Info("applying manifest", "path", cmd.Args().First(), "entries", len(entries), "dry_run", a.cfg.DryRun)

	outcomes, err := a.engine.ApplyAll(ctx, entries)
	if len(outcomes) > 0 && !a.plan {
		fmt.Println(formatOutcomes(outcomes))
	}
	return err
}

func removeAction(ctx context.Context, cmd *cli.Command, a *app) error {
	name, err := mountPointArg(cmd)
	if err != nil {
		return err
	}

	_, err = a.engine.Apply(ctx, reconcile.Entry{
		Name:   name,
		Ensure: reconcile.EnsureAbsent,
		Force:  cmd.String("force"),
	})
	return err
}

func mountAction(ctx context.Context, cmd *cli.Command, a *app) error {
	name, err := mountPointArg(cmd)
	if err != nil {
		return err
	}
	return a.provider.Mount(ctx, name)
}

func unmountAction(ctx context.Context, cmd *cli.Command, a *app) error {
	name, err := mountPointArg(cmd)
	if err != nil {
		return err
	}
	return a.provider.Unmount(ctx, name)
}
