package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/vpcctl/internal/config"
	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/platform/s3"
	"github.com/imamik/vpcctl/internal/provisioning"
)

// newCloud connects to the network's region and the key backup store.
// Replaced in tests.
var newCloud = func(ctx context.Context, creds config.Credentials, cfg *config.NetworkConfig) (provisioning.Cloud, error) {
	ec2Client, err := ec2internal.NewRealClient(ctx, creds, cfg.Region)
	if err != nil {
		return provisioning.Cloud{}, fmt.Errorf("failed to create EC2 client: %w", err)
	}

	blobs, err := s3.NewClient(ctx, cfg.BucketRegion(), creds.AccessKeyID, creds.SecretAccessKey)
	if err != nil {
		return provisioning.Cloud{}, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return provisioning.Cloud{
		Network:   ec2Client,
		Compute:   ec2Client,
		Storage:   blobs,
		AccountID: creds.AccountID(),
	}, nil
}

// connect loads the credentials and builds the remote collaborators for cfg.
func connect(ctx context.Context, opts *GlobalOptions, cfg *config.NetworkConfig) (provisioning.Cloud, error) {
	creds, err := ensureCredentials(ctx, opts.stateDir())
	if err != nil {
		return provisioning.Cloud{}, err
	}
	return newCloud(ctx, creds, cfg)
}
