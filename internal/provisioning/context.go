package provisioning

import (
	"context"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/imamik/vpcctl/internal/config"
	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/util/naming"
)

// DefaultStateDir holds the credentials file and local key material.
const DefaultStateDir = ".vpcctl"

// Cloud groups the remote collaborators a phase talks to.
type Cloud struct {
	Network ec2internal.NetworkAPI
	Compute ec2internal.ComputeAPI
	Storage BlobStore

	// AccountID scopes the key backup bucket name.
	AccountID string
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.NetworkConfig
	State    *State
	Cloud    Cloud
	Observer Observer
	Poll     *config.PollPolicy
	StateDir string
}

// NewContext creates a new provisioning context.
// A nil observer discards all output.
func NewContext(
	ctx context.Context,
	cfg *config.NetworkConfig,
	cloud Cloud,
	stateDir string,
	observer Observer,
) *Context {
	if observer == nil {
		observer = NewLogObserver(logr.Discard())
	}
	if stateDir == "" {
		stateDir = DefaultStateDir
	}
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Cloud:    cloud,
		Observer: observer,
		Poll:     config.LoadPollPolicy(),
		StateDir: stateDir,
	}
}

// KeyFile returns the local path of the network's bastion private key.
func (c *Context) KeyFile() string {
	return filepath.Join(c.StateDir, naming.KeyObject(naming.KeyPair(c.Config.Name)))
}

// PollPolicy returns the context's poll policy, loading the environment
// defaults when none was set.
func (c *Context) PollPolicy() *config.PollPolicy {
	if c.Poll == nil {
		c.Poll = config.LoadPollPolicy()
	}
	return c.Poll
}
