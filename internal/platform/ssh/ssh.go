package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/imamik/vpcctl/internal/util/keygen"
	"github.com/imamik/vpcctl/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 10
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// DialTimeout bounds the TCP connect and handshake of one attempt.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// MaxRetries is the maximum number of connection retry attempts.
	// If zero, defaultMaxRetries is used.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used: bastion host keys are
	// generated at launch and never known in advance.
	HostKeyCallback ssh.HostKeyCallback
}

// Client is an open connection to one host.
type Client struct {
	config *Config
	conn   *ssh.Client
}

func (cfg *Config) withDefaults() (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	// Copy config to avoid mutating caller's struct
	c := *cfg
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.HostKeyCallback == nil {
		c.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // bastions are ephemeral
	}
	return &c, nil
}

// Address returns host:port.
func (cfg *Config) Address() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

// Dial validates cfg, parses the private key and connects to the host.
// Key errors fail immediately; connection errors are retried with backoff.
func Dial(ctx context.Context, cfg *Config) (*Client, error) {
	c, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	signer, err := keygen.ParsePrivateKey(c.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            c.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: c.HostKeyCallback,
		Timeout:         c.DialTimeout,
	}

	addr := c.Address()
	var conn *ssh.Client
	err = retry.WithExponentialBackoff(ctx, func() error {
		var dialErr error
		conn, dialErr = dial(ctx, addr, clientConfig)
		return dialErr
	},
		retry.WithMaxRetries(c.MaxRetries),
		retry.WithInitialDelay(c.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	return &Client{config: c, conn: conn}, nil
}

func dial(ctx context.Context, addr string, clientConfig *ssh.ClientConfig) (*ssh.Client, error) {
	d := net.Dialer{Timeout: clientConfig.Timeout}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	cc, chans, reqs, err := ssh.NewClientConn(nc, addr, clientConfig)
	if err != nil {
		_ = nc.Close()
		return nil, err
	}
	return ssh.NewClient(cc, chans, reqs), nil
}

// Run executes command in a new session and returns its combined output.
// Cancelling ctx closes the session.
func (c *Client) Run(ctx context.Context, command string) (string, error) {
	session, err := c.conn.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = session.Close()
		case <-done:
		}
	}()

	output, err := session.CombinedOutput(command)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return string(output), fmt.Errorf("command on %s interrupted: %w", c.config.Host, ctxErr)
	}
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return string(output), fmt.Errorf("command %q failed on %s with exit status %d: %w",
				command, c.config.Host, exitErr.ExitStatus(), err)
		}
		return string(output), fmt.Errorf("command %q failed on %s: %w", command, c.config.Host, err)
	}
	return string(output), nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
