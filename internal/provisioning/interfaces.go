package provisioning

import "context"

// Logger is the printf-style sink every Observer embeds.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// BlobStore holds the bastion key backup.
// Implemented by internal/platform/s3.Client.
type BlobStore interface {
	// EnsureBucket creates the bucket in region unless it already exists.
	EnsureBucket(ctx context.Context, bucket, region string) error

	// PutObject uploads data with server-side encryption.
	PutObject(ctx context.Context, bucket, key string, data []byte) error

	// GetObject downloads an object. Returns s3.ErrObjectNotFound if absent.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}
