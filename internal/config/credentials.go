package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CredentialsFileName is the name of the credentials file inside the state directory.
const CredentialsFileName = "credentials.yaml"

// Credentials are the static API credentials used for every remote call.
type Credentials struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ErrNoCredentials is returned by LoadCredentials when the file does not exist.
var ErrNoCredentials = errors.New("no credentials file")

// CredentialsPath returns the credentials file location inside stateDir.
func CredentialsPath(stateDir string) string {
	return filepath.Join(stateDir, CredentialsFileName)
}

// AccountID identifies the account the credentials belong to. It is the
// access key id, which is stable and known without a remote call.
func (c Credentials) AccountID() string {
	return c.AccessKeyID
}

// Validate checks that both fields are set.
func (c Credentials) Validate() error {
	if c.AccessKeyID == "" {
		return fmt.Errorf("access_key_id is required")
	}
	if c.SecretAccessKey == "" {
		return fmt.Errorf("secret_access_key is required")
	}
	return nil
}

// CredentialsExist reports whether a credentials file is present at path.
func CredentialsExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadCredentials reads the credentials file at path.
func LoadCredentials(path string) (Credentials, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, fmt.Errorf("%w: %s", ErrNoCredentials, path)
		}
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	var c Credentials
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("credentials %s: %w", path, err)
	}
	return c, nil
}

// SaveCredentials writes c to path, readable by the owner only.
func SaveCredentials(path string, c Credentials) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0o600)
}
