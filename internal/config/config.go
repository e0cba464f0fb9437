package config

import (
	"fmt"
	"slices"
)

// DefaultNetworkName is used when no network name is given on the command line.
const DefaultNetworkName = "midkemia"

// DefaultKeyBucketRegion is the region the key backup bucket is created in
// when key_bucket_region is not set.
const DefaultKeyBucketRegion = "us-east-1"

// NetworkConfig is the declarative description of one network and its subnets.
type NetworkConfig struct {
	Name                string   `yaml:"name"`
	Region              string   `yaml:"region"`
	CIDRBlock           string   `yaml:"cidr_block"`
	DefaultImageID      string   `yaml:"default_image_id"`
	DefaultInstanceType string   `yaml:"default_instance_type"`
	DefaultLoginUser    string   `yaml:"default_image_login_user"`
	KeyBucketPrefix     string   `yaml:"key_bucket_prefix"`
	KeyBucketRegion     string   `yaml:"key_bucket_region,omitempty"`
	BootstrapCommands   []string `yaml:"bootstrap_commands,omitempty"`

	// Subnets in file order. Populated from the top-level "subnets" list.
	Subnets []SubnetConfig `yaml:"-"`
}

// SubnetConfig describes one subnet and the bastion host placed in it.
type SubnetConfig struct {
	Name             string `yaml:"name"`
	CIDRBlock        string `yaml:"cidr_block"`
	AvailabilityZone string `yaml:"availability_zone"`
	BastionHostName  string `yaml:"bastion_host"`
}

// Subnet returns the subnet section with the given name.
func (c *NetworkConfig) Subnet(name string) (SubnetConfig, bool) {
	i := slices.IndexFunc(c.Subnets, func(s SubnetConfig) bool { return s.Name == name })
	if i < 0 {
		return SubnetConfig{}, false
	}
	return c.Subnets[i], true
}

// SubnetNames returns the subnet names in file order.
func (c *NetworkConfig) SubnetNames() []string {
	names := make([]string, len(c.Subnets))
	for i, s := range c.Subnets {
		names[i] = s.Name
	}
	return names
}

// BucketRegion returns the configured key bucket region or the default.
func (c *NetworkConfig) BucketRegion() string {
	if c.KeyBucketRegion != "" {
		return c.KeyBucketRegion
	}
	return DefaultKeyBucketRegion
}

// Validate checks the configuration for missing fields and inconsistent addressing.
func (c *NetworkConfig) Validate() error {
	required := []struct {
		key, value string
	}{
		{"name", c.Name},
		{"region", c.Region},
		{"cidr_block", c.CIDRBlock},
		{"default_image_id", c.DefaultImageID},
		{"default_instance_type", c.DefaultInstanceType},
		{"default_image_login_user", c.DefaultLoginUser},
		{"key_bucket_prefix", c.KeyBucketPrefix},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("vpc.%s is required", r.key)
		}
	}

	if _, err := ParseIPv4CIDR(c.CIDRBlock); err != nil {
		return fmt.Errorf("vpc.cidr_block: %w", err)
	}

	if len(c.Subnets) == 0 {
		return fmt.Errorf("at least one subnet is required")
	}

	return c.validateSubnets()
}

func (c *NetworkConfig) validateSubnets() error {
	names := make(map[string]bool, len(c.Subnets))
	bastions := make(map[string]bool, len(c.Subnets))

	for i, s := range c.Subnets {
		if s.Name == "" {
			return fmt.Errorf("subnets[%d].name is required", i)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate subnet name %q", s.Name)
		}
		names[s.Name] = true

		if s.AvailabilityZone == "" {
			return fmt.Errorf("subnet %q: availability_zone is required", s.Name)
		}
		if s.BastionHostName == "" {
			return fmt.Errorf("subnet %q: bastion_host is required", s.Name)
		}
		if bastions[s.BastionHostName] {
			return fmt.Errorf("duplicate bastion host name %q", s.BastionHostName)
		}
		bastions[s.BastionHostName] = true

		if _, err := ParseIPv4CIDR(s.CIDRBlock); err != nil {
			return fmt.Errorf("subnet %q: cidr_block: %w", s.Name, err)
		}
		inside, err := CIDRContains(c.CIDRBlock, s.CIDRBlock)
		if err != nil {
			return err
		}
		if !inside {
			return fmt.Errorf("subnet %q: %s is not inside network %s", s.Name, s.CIDRBlock, c.CIDRBlock)
		}

		for _, prev := range c.Subnets[:i] {
			overlap, err := CIDROverlaps(prev.CIDRBlock, s.CIDRBlock)
			if err != nil {
				return err
			}
			if overlap {
				return fmt.Errorf("subnet %q (%s) overlaps subnet %q (%s)", s.Name, s.CIDRBlock, prev.Name, prev.CIDRBlock)
			}
		}
	}
	return nil
}
