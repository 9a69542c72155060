package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/runner"
)

const (
	// DefaultConfigPath is the default location for the config file
	DefaultConfigPath = "/etc/aix-mount/aix-mount.toml"
	// DefaultTransport is the default command transport
	DefaultTransport = runner.TransportLocal
	// DefaultSSHUser is used when ssh is selected without a user
	DefaultSSHUser = "root"
)

// Config holds the tool configuration
type Config struct {
	// Transport selects where commands run: "local" or "ssh"
	Transport string `toml:"transport"`
	// DryRun logs mutating commands instead of running them
	DryRun bool `toml:"dry_run"`
	// BackupDir receives a copy of /etc/filesystems before each change
	BackupDir string `toml:"backup_dir"`

	Tools Tools `toml:"tools"`
	SSH   SSH   `toml:"ssh"`
}

// Tools overrides the AIX command paths
type Tools struct {
	Lsfs     string `toml:"lsfs"`
	Crfs     string `toml:"crfs"`
	Chfs     string `toml:"chfs"`
	Chnfsmnt string `toml:"chnfsmnt"`
	Rmfs     string `toml:"rmfs"`
	Mount    string `toml:"mount"`
	Umount   string `toml:"umount"`
}

// SSH configures the ssh transport
type SSH struct {
	Host       string        `toml:"host"`
	Port       int           `toml:"port"`
	User       string        `toml:"user"`
	KeyFile    string        `toml:"key_file"`
	KnownHosts string        `toml:"known_hosts"`
	Timeout    time.Duration `toml:"timeout"`
}

// Load loads configuration from a TOML file
// Returns an empty config if the file doesn't exist
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// Merge merges CLI flags into the config, with CLI flags taking precedence
// over config file values. Empty CLI values are ignored.
func (c *Config) Merge(transport, host, user string, dryRun bool) {
	if transport != "" {
		c.Transport = transport
	}
	if host != "" {
		c.SSH.Host = host
	}
	if user != "" {
		c.SSH.User = user
	}
	if dryRun {
		c.DryRun = true
	}
}

// ApplyDefaults applies default values for any unset fields
func (c *Config) ApplyDefaults() {
	if c.Transport == "" {
		if c.SSH.Host != "" {
			c.Transport = runner.TransportSSH
		} else {
			c.Transport = DefaultTransport
		}
	}
	if c.Transport == runner.TransportSSH {
		if c.SSH.User == "" {
			c.SSH.User = DefaultSSHUser
		}
		if c.SSH.Port == 0 {
			c.SSH.Port = runner.DefaultSSHPort
		}
		if c.SSH.Timeout == 0 {
			c.SSH.Timeout = runner.DefaultSSHTimeout
		}
	}

	defaults := aixfs.DefaultTools()
	setDefault(&c.Tools.Lsfs, defaults.List)
	setDefault(&c.Tools.Crfs, defaults.Create)
	setDefault(&c.Tools.Chfs, defaults.Modify)
	setDefault(&c.Tools.Chnfsmnt, defaults.ChNFSMnt)
	setDefault(&c.Tools.Rmfs, defaults.Delete)
	setDefault(&c.Tools.Mount, defaults.Mount)
	setDefault(&c.Tools.Umount, defaults.Umount)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Transport {
	case runner.TransportLocal:
	case runner.TransportSSH:
		if c.SSH.Host == "" {
			return fmt.Errorf("ssh host is required (use --host or set 'ssh.host' in config file)")
		}
		if c.SSH.Port < 1 || c.SSH.Port > 65535 {
			return fmt.Errorf("ssh port must be between 1 and 65535, got %d", c.SSH.Port)
		}
	default:
		return fmt.Errorf("transport must be 'local' or 'ssh', got %q", c.Transport)
	}

	return nil
}

// AIXTools returns the command paths for the translator
func (c *Config) AIXTools() aixfs.Tools {
	return aixfs.Tools{
		List:     c.Tools.Lsfs,
		Create:   c.Tools.Crfs,
		Modify:   c.Tools.Chfs,
		ChNFSMnt: c.Tools.Chnfsmnt,
		Delete:   c.Tools.Rmfs,
		Mount:    c.Tools.Mount,
		Umount:   c.Tools.Umount,
	}
}

// SSHConfig returns the runner settings for the ssh transport
func (c *Config) SSHConfig() runner.SSHConfig {
	return runner.SSHConfig{
		Host:       c.SSH.Host,
		Port:       c.SSH.Port,
		User:       c.SSH.User,
		KeyFile:    c.SSH.KeyFile,
		KnownHosts: c.SSH.KnownHosts,
		Timeout:    c.SSH.Timeout,
	}
}
