package provisioning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vpcctl/internal/config"
)

func validConfig() *config.NetworkConfig {
	return &config.NetworkConfig{
		Name:                "midkemia",
		Region:              "eu-west-1",
		CIDRBlock:           "10.0.0.0/16",
		DefaultImageID:      "ami-1",
		DefaultInstanceType: "t3.micro",
		DefaultLoginUser:    "ubuntu",
		KeyBucketPrefix:     "keys",
		KeyBucketRegion:     "eu-west-1",
		Subnets: []config.SubnetConfig{
			{Name: "public-a", CIDRBlock: "10.0.1.0/24", AvailabilityZone: "eu-west-1a", BastionHostName: "bastion-a"},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		mutate       func(*config.NetworkConfig)
		wantField    string
		wantSeverity string
	}{
		{
			name:   "valid",
			mutate: func(*config.NetworkConfig) {},
		},
		{
			name:         "structural error",
			mutate:       func(c *config.NetworkConfig) { c.Name = "" },
			wantField:    "vpc",
			wantSeverity: "error",
		},
		{
			name: "network prefix too large",
			mutate: func(c *config.NetworkConfig) {
				c.CIDRBlock = "10.0.0.0/8"
			},
			wantField:    "vpc.cidr_block",
			wantSeverity: "error",
		},
		{
			name: "subnet prefix too small",
			mutate: func(c *config.NetworkConfig) {
				c.Subnets[0].CIDRBlock = "10.0.1.0/29"
			},
			wantField:    "subnets[0].cidr_block",
			wantSeverity: "error",
		},
		{
			name: "zone outside region",
			mutate: func(c *config.NetworkConfig) {
				c.Subnets[0].AvailabilityZone = "us-east-1a"
			},
			wantField:    "subnets[0].availability_zone",
			wantSeverity: "error",
		},
		{
			name: "bucket in another region",
			mutate: func(c *config.NetworkConfig) {
				c.KeyBucketRegion = ""
			},
			wantField:    "vpc.key_bucket_region",
			wantSeverity: "warning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			errs := validate(cfg)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Equal(t, tt.wantSeverity, errs[0].Severity)
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()
	errs := validate(nil)
	require.Len(t, errs, 1)
	assert.True(t, errs[0].IsError())
}

func TestValidationPhase(t *testing.T) {
	t.Parallel()
	phase := NewValidationPhase()
	assert.Equal(t, "validation", phase.Name())

	obs := &recordingObserver{}
	ctx := &Context{Context: context.Background(), Config: validConfig(), Observer: obs}
	require.NoError(t, phase.Provision(ctx))

	warn := validConfig()
	warn.KeyBucketRegion = "us-east-1"
	obs = &recordingObserver{}
	ctx = &Context{Context: context.Background(), Config: warn, Observer: obs}
	require.NoError(t, phase.Provision(ctx), "warnings do not fail the phase")
	assert.Equal(t, []EventType{EventValidationWarning}, obs.types())

	bad := validConfig()
	bad.Subnets[0].AvailabilityZone = "us-east-1a"
	obs = &recordingObserver{}
	ctx = &Context{Context: context.Background(), Config: bad, Observer: obs}
	err := phase.Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "subnets[0].availability_zone")
	assert.Equal(t, []EventType{EventValidationError}, obs.types())
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	ve := ValidationError{Field: "vpc.region", Message: "missing", Severity: "error"}
	assert.Equal(t, "[error] vpc.region: missing", ve.Error())
	assert.True(t, ve.IsError())
	assert.False(t, ValidationError{Severity: "warning"}.IsError())
}
