package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is where network configuration files are looked up.
const DefaultConfigDir = "config/vpc"

// fileFormat is the on-disk layout of a network configuration file.
type fileFormat struct {
	VPC     NetworkConfig  `yaml:"vpc"`
	Subnets []SubnetConfig `yaml:"subnets"`
}

// Resolve maps a network name to its configuration file path.
func Resolve(dir, name string) string {
	if dir == "" {
		dir = DefaultConfigDir
	}
	return filepath.Join(dir, name+".yaml")
}

// Load reads, parses and validates the configuration file at path.
func Load(path string) (*NetworkConfig, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document.
// Unknown keys are rejected.
func Parse(data []byte) (*NetworkConfig, error) {
	var f fileFormat
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config file is empty")
		}
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg := f.VPC
	cfg.Subnets = f.Subnets

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Marshal encodes cfg in the on-disk layout.
func Marshal(cfg *NetworkConfig) ([]byte, error) {
	return yaml.Marshal(fileFormat{VPC: *cfg, Subnets: cfg.Subnets})
}
