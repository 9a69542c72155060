package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alessio/shellescape"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/kriansa/aix-mount/internal/log"
)

const (
	DefaultSSHPort      = 22
	DefaultSSHTimeout   = 10 * time.Second
	DefaultDialDeadline = 30 * time.Second
)

// SSHConfig describes how to reach the managed host.
type SSHConfig struct {
	Host string
	Port int
	User string
	// KeyFile is a private key used for public key authentication.
	KeyFile string
	// KnownHosts is an OpenSSH known_hosts file. When empty the host key
	// is not verified.
	KnownHosts string
	// Timeout bounds a single TCP dial and handshake.
	Timeout time.Duration
	// DialDeadline bounds the total time spent retrying the connection.
	DialDeadline time.Duration
}

// SSH runs commands on a remote host over a single shared connection.
type SSH struct {
	cfg    SSHConfig
	config *ssh.ClientConfig

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSH validates cfg and prepares the client. The connection is opened
// on first use.
func NewSSH(cfg SSHConfig) (*SSH, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("ssh host is required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("ssh user is required")
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultSSHPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultSSHTimeout
	}
	if cfg.DialDeadline == 0 {
		cfg.DialDeadline = DefaultDialDeadline
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if cfg.KnownHosts != "" {
		cb, err := knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("load known hosts: %w", err)
		}
		hostKeyCallback = cb
	} else {
		log.Warn("ssh host key verification disabled, set ssh.known_hosts", "host", cfg.Host)
	}

	config := &ssh.ClientConfig{
		User:            cfg.User,
		HostKeyCallback: hostKeyCallback,
		Timeout:         cfg.Timeout,
	}

	if cfg.KeyFile != "" {
		pem, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		config.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	}

	return &SSH{cfg: cfg, config: config}, nil
}

func (s *SSH) address() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// connect returns the shared client, dialing with exponential backoff if
// there is none yet.
func (s *SSH) connect(ctx context.Context) (*ssh.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = s.cfg.DialDeadline

	attempt := 0
	op := func() error {
		attempt++
		client, err := ssh.Dial("tcp", s.address(), s.config)
		if err != nil {
			log.Debug("ssh dial failed", "address", s.address(), "attempt", attempt, "error", err)
			if isAuthError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		s.client = client
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", s.address(), err)
	}

	log.Debug("ssh connected", "address", s.address(), "user", s.cfg.User)
	return s.client, nil
}

// isAuthError reports handshake failures that retrying cannot fix.
func isAuthError(err error) bool {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return true
	}
	return strings.Contains(err.Error(), "unable to authenticate")
}

func (s *SSH) Run(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	defer func() { _ = session.Close() }()

	command := shellescape.QuoteCommand(argv)
	log.Debug("running remote command", "host", s.cfg.Host, "command", command)

	type result struct {
		output []byte
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		output, err := session.CombinedOutput(command)
		ch <- result{output, err}
	}()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			var exitErr *ssh.ExitError
			if errors.As(r.err, &exitErr) {
				return r.output, &ExitError{Argv: argv, Code: exitErr.ExitStatus(), Output: r.output}
			}
			return r.output, fmt.Errorf("%s: %w", command, r.err)
		}
		return r.output, nil
	}
}

func (s *SSH) ReadFile(ctx context.Context, path string) ([]byte, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		return nil, fmt.Errorf("create sftp client: %w", err)
	}
	defer func() { _ = sftpClient.Close() }()

	f, err := sftpClient.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (s *SSH) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
