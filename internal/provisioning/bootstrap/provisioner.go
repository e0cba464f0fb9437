package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imamik/vpcctl/internal/config"
	"github.com/imamik/vpcctl/internal/platform/ssh"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/provisioning/keys"
	"github.com/imamik/vpcctl/internal/util/async"
	"github.com/imamik/vpcctl/internal/util/netutil"
)

const phase = "bootstrap"

// Shell runs commands on one host.
type Shell interface {
	Run(ctx context.Context, command string) (string, error)
	Close() error
}

// Dialer opens a shell on a bastion.
type Dialer func(ctx context.Context, node provisioning.BastionNode, privateKey []byte, policy *config.PollPolicy) (Shell, error)

// PortWaiter blocks until host accepts TCP connections on port.
type PortWaiter func(ctx context.Context, host string, port int, interval time.Duration, maxAttempts int) error

// SSHDialer connects with the platform SSH client, retrying per the policy.
func SSHDialer(ctx context.Context, node provisioning.BastionNode, privateKey []byte, policy *config.PollPolicy) (Shell, error) {
	client, err := ssh.Dial(ctx, &ssh.Config{
		Host:       node.PublicIP,
		Port:       netutil.SSHPort,
		User:       node.User,
		PrivateKey: privateKey,
		MaxRetries: policy.SSHRetries,
		RetryDelay: policy.SSHRetryDelay,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithDialer replaces the SSH dialer.
func WithDialer(d Dialer) Option {
	return func(p *Provisioner) {
		p.dial = d
	}
}

// WithPortWaiter replaces the TCP reachability check.
func WithPortWaiter(w PortWaiter) Option {
	return func(p *Provisioner) {
		p.waitForPort = w
	}
}

// Provisioner runs bootstrap commands on bastions.
type Provisioner struct {
	dial        Dialer
	waitForPort PortWaiter
}

// NewProvisioner creates a bootstrap provisioner that connects over SSH.
func NewProvisioner(opts ...Option) *Provisioner {
	p := &Provisioner{
		dial:        SSHDialer,
		waitForPort: netutil.WaitForPort,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	commands := ctx.Config.BootstrapCommands
	if len(commands) == 0 {
		ctx.Observer.Printf("[%s] No bootstrap commands configured, skipping", phase)
		return nil
	}
	if len(ctx.State.Bastions) == 0 {
		return fmt.Errorf("no bastions in provisioning state")
	}

	privateKey, err := keys.LoadPrivateKey(ctx)
	if err != nil {
		return err
	}

	tasks := make([]async.Task, 0, len(ctx.State.Bastions))
	for _, node := range ctx.State.Bastions {
		tasks = append(tasks, async.Task{
			Name: node.Name,
			Func: func(c context.Context) error {
				return p.bootstrapNode(c, ctx, node, privateKey, commands)
			},
		})
	}

	ctx.Observer.Printf("[%s] Running %d commands on %d bastions", phase, len(commands), len(tasks))
	return async.RunParallel(ctx, tasks)
}

func (p *Provisioner) bootstrapNode(
	c context.Context,
	ctx *provisioning.Context,
	node provisioning.BastionNode,
	privateKey []byte,
	commands []string,
) error {
	observer := ctx.Observer.WithFields(map[string]string{"bastion": node.Name})
	policy := ctx.PollPolicy()

	observer.Printf("[%s] Waiting for %s to accept SSH connections", phase, node.Target())
	if err := p.waitForPort(c, node.PublicIP, netutil.SSHPort, policy.Interval, policy.MaxAttempts); err != nil {
		return err
	}

	shell, err := p.dial(c, node, privateKey, policy)
	if err != nil {
		return err
	}
	defer func() { _ = shell.Close() }()

	for i, command := range commands {
		observer.Printf("[%s] %s: running %q", phase, node.Name, command)
		output, err := shell.Run(c, command)
		if out := strings.TrimSpace(output); out != "" {
			observer.Printf("[%s] %s: %s", phase, node.Name, out)
		}
		if err != nil {
			return fmt.Errorf("command %d of %d: %w", i+1, len(commands), err)
		}
	}

	observer.Printf("[%s] %s bootstrapped", phase, node.Name)
	return nil
}
