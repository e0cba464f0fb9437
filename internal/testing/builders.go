package testing

import (
	"slices"

	"github.com/imamik/vpcctl/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.NetworkConfig
}

// NewConfigBuilder creates a new ConfigBuilder with sensible defaults and no subnets.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.NetworkConfig{
			Name:                "test-net",
			Region:              "eu-west-1",
			CIDRBlock:           "10.0.0.0/16",
			DefaultImageID:      "ami-0123456789abcdef0",
			DefaultInstanceType: "t3.micro",
			DefaultLoginUser:    "ubuntu",
			KeyBucketPrefix:     "test-keys",
		},
	}
}

// WithName sets the network name.
func (b *ConfigBuilder) WithName(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Name = name
	return newBuilder
}

// WithRegion sets the region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Region = region
	return newBuilder
}

// WithCIDR sets the network CIDR block.
func (b *ConfigBuilder) WithCIDR(cidr string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.CIDRBlock = cidr
	return newBuilder
}

// WithSubnet appends a subnet and its bastion.
func (b *ConfigBuilder) WithSubnet(name, cidr, zone, bastion string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Subnets = append(newBuilder.cfg.Subnets, config.SubnetConfig{
		Name:             name,
		CIDRBlock:        cidr,
		AvailabilityZone: zone,
		BastionHostName:  bastion,
	})
	return newBuilder
}

// WithKeyBucketRegion sets the region of the key backup bucket.
func (b *ConfigBuilder) WithKeyBucketRegion(region string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.KeyBucketRegion = region
	return newBuilder
}

// WithBootstrapCommands sets the commands run on each bastion.
func (b *ConfigBuilder) WithBootstrapCommands(commands ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.BootstrapCommands = commands
	return newBuilder
}

// Build returns the constructed configuration.
func (b *ConfigBuilder) Build() *config.NetworkConfig {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Subnets = slices.Clone(b.cfg.Subnets)
	cfg.BootstrapCommands = slices.Clone(b.cfg.BootstrapCommands)
	return &ConfigBuilder{cfg: cfg}
}

// MinimalConfig returns the single-subnet "test-net" configuration.
func MinimalConfig() *config.NetworkConfig {
	return NewConfigBuilder().
		WithSubnet("public-a", "10.0.1.0/24", "eu-west-1a", "bastion-a").
		Build()
}

// TwoSubnetConfig returns a configuration with two subnets in different zones.
func TwoSubnetConfig() *config.NetworkConfig {
	return NewConfigBuilder().
		WithSubnet("public-a", "10.0.1.0/24", "eu-west-1a", "bastion-a").
		WithSubnet("public-b", "10.0.2.0/24", "eu-west-1b", "bastion-b").
		Build()
}
