package testing

import (
	"context"

	"github.com/imamik/vpcctl/internal/config"
	"github.com/imamik/vpcctl/internal/platform/ec2/fakes"
	"github.com/imamik/vpcctl/internal/provisioning"
)

// CloudFixture bundles an in-memory region, key store, and recording
// observer for reconciler tests.
type CloudFixture struct {
	Cloud    *fakes.Cloud
	Blobs    *fakes.Blobs
	Observer *MockObserver
	StateDir string
}

// TB is the part of testing.TB a fixture needs. GinkgoT() satisfies it.
type TB interface {
	Helper()
	TempDir() string
}

// NewCloudFixture creates a fixture with an empty region and a temporary
// state directory.
func NewCloudFixture(t TB) *CloudFixture {
	t.Helper()
	return &CloudFixture{
		Cloud:    fakes.NewCloud(),
		Blobs:    fakes.NewBlobs(),
		Observer: NewMockObserver(),
		StateDir: t.TempDir(),
	}
}

// Clients returns the fixture's collaborators as a provisioning.Cloud.
func (f *CloudFixture) Clients() provisioning.Cloud {
	return provisioning.Cloud{
		Network:   f.Cloud,
		Compute:   f.Cloud,
		Storage:   f.Blobs,
		AccountID: TestAccountID,
	}
}

// Context creates a fresh provisioning context over the fixture with a fast
// poll policy. Each call starts from an empty State, like a new invocation.
func (f *CloudFixture) Context(ctx context.Context, cfg *config.NetworkConfig) *provisioning.Context {
	pCtx := provisioning.NewContext(ctx, cfg, f.Clients(), f.StateDir, f.Observer)
	pCtx.Poll = FastPollPolicy()
	return pCtx
}
