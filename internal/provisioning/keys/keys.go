package keys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/vpcctl/internal/platform/s3"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/util/keygen"
	"github.com/imamik/vpcctl/internal/util/naming"
)

const phase = "keys"

// keyFileMode is applied to the local key file on every write and check.
const keyFileMode = 0o600

// ErrKeyMaterialLost is returned when the remote key pair exists but neither
// the local key file nor its backup can be read. It is marked fatal.
var ErrKeyMaterialLost = errors.New("bastion key material lost")

// BucketName returns the backup bucket of the context's account.
func BucketName(ctx *provisioning.Context) string {
	return naming.KeyBucket(ctx.Config.KeyBucketPrefix, ctx.Cloud.AccountID)
}

// backupLocation formats the object URL used in messages.
func backupLocation(ctx *provisioning.Context) string {
	return fmt.Sprintf("s3://%s/%s", BucketName(ctx), naming.KeyObject(naming.KeyPair(ctx.Config.Name)))
}

// ResolveKeyPair makes sure the network's key pair exists remotely and its
// private key is present locally, and returns the key name.
//
// An existing key pair is reused and its local file restored if needed. A new
// key pair is written to the local key file and backed up to the bucket.
func ResolveKeyPair(ctx *provisioning.Context) (string, error) {
	name := naming.KeyPair(ctx.Config.Name)

	info, err := ctx.Cloud.Compute.GetKeyPair(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to look up key pair %s: %w", name, err)
	}
	if info != nil {
		provisioning.LogResourceExists(ctx.Observer, phase, provisioning.KindKeyPair, name, aws.ToString(info.KeyPairId))
		if err := EnsureLocalKeyFile(ctx); err != nil {
			return "", err
		}
		ctx.State.KeyName = name
		return name, nil
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, provisioning.KindKeyPair, name)
	kp, err := ctx.Cloud.Compute.CreateKeyPair(ctx, name)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindKeyPair, name, err)
		return "", fmt.Errorf("failed to create key pair %s: %w", name, err)
	}

	material := []byte(kp.Material)
	if _, err := keygen.ParsePrivateKey(material); err != nil {
		return "", fmt.Errorf("key pair %s: %w", name, err)
	}
	if err := writeKeyFile(ctx.KeyFile(), material); err != nil {
		return "", err
	}
	if err := backup(ctx, material); err != nil {
		return "", err
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, provisioning.KindKeyPair, name, kp.ID)

	ctx.State.KeyName = name
	return name, nil
}

// backup uploads material to the account's key bucket, creating the bucket
// in the configured region first.
func backup(ctx *provisioning.Context, material []byte) error {
	bucket := BucketName(ctx)
	object := naming.KeyObject(naming.KeyPair(ctx.Config.Name))

	ctx.Observer.Printf("[%s] Using bucket %s to hold bastion keys", phase, bucket)
	if err := ctx.Cloud.Storage.EnsureBucket(ctx, bucket, ctx.Config.BucketRegion()); err != nil {
		return fmt.Errorf("failed to ensure key bucket %s: %w", bucket, err)
	}
	if err := ctx.Cloud.Storage.PutObject(ctx, bucket, object, material); err != nil {
		return fmt.Errorf("failed to back up bastion key: %w", err)
	}
	ctx.Observer.Printf("[%s] Uploaded bastion key to %s", phase, backupLocation(ctx))
	return nil
}

// EnsureLocalKeyFile makes the local key file present and owner-readable
// only. A missing file is restored from the backup bucket; the downloaded
// material must parse as a private key before it is written.
func EnsureLocalKeyFile(ctx *provisioning.Context) error {
	path := ctx.KeyFile()

	_, err := os.Stat(path)
	if err == nil {
		if err := os.Chmod(path, keyFileMode); err != nil {
			return fmt.Errorf("failed to restrict %s: %w", path, err)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	ctx.Observer.Printf("[%s] Downloading bastion key from %s", phase, backupLocation(ctx))
	object := naming.KeyObject(naming.KeyPair(ctx.Config.Name))
	material, err := ctx.Cloud.Storage.GetObject(ctx, BucketName(ctx), object)
	if err != nil {
		if errors.Is(err, s3.ErrObjectNotFound) {
			return fmt.Errorf("%w: %s is missing and no backup exists at %s",
				ErrKeyMaterialLost, path, backupLocation(ctx))
		}
		return fmt.Errorf("failed to download bastion key: %w", err)
	}

	fingerprint, err := keygen.Fingerprint(material)
	if err != nil {
		return fmt.Errorf("%w: backup %s is unusable: %v",
			ErrKeyMaterialLost, backupLocation(ctx), err)
	}
	if err := writeKeyFile(path, material); err != nil {
		return err
	}
	ctx.Observer.Printf("[%s] Restored %s (%s)", phase, path, fingerprint)
	return nil
}

// LoadPrivateKey returns the validated contents of the local key file,
// restoring it first when missing.
func LoadPrivateKey(ctx *provisioning.Context) ([]byte, error) {
	if err := EnsureLocalKeyFile(ctx); err != nil {
		return nil, err
	}
	path := ctx.KeyFile()
	// #nosec G304
	material, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if _, err := keygen.ParsePrivateKey(material); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return material, nil
}

func writeKeyFile(path string, material []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, material, keyFileMode); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, keyFileMode); err != nil {
		return fmt.Errorf("failed to restrict %s: %w", path, err)
	}
	return nil
}
