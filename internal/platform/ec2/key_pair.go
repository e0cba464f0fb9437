package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// GetKeyPair returns the named key pair, or nil if it does not exist.
func (c *RealClient) GetKeyPair(ctx context.Context, name string) (*types.KeyPairInfo, error) {
	out, err := c.ec2.DescribeKeyPairs(ctx, &awsec2.DescribeKeyPairsInput{KeyNames: []string{name}})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe key pair %s: %w", name, err)
	}
	if len(out.KeyPairs) == 0 {
		return nil, nil
	}
	return &out.KeyPairs[0], nil
}

// CreateKeyPair creates a key pair and returns its private key material.
func (c *RealClient) CreateKeyPair(ctx context.Context, name string) (*KeyPair, error) {
	out, err := c.ec2.CreateKeyPair(ctx, &awsec2.CreateKeyPairInput{KeyName: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("failed to create key pair %s: %w", name, err)
	}
	return &KeyPair{
		Name:     aws.ToString(out.KeyName),
		ID:       aws.ToString(out.KeyPairId),
		Material: aws.ToString(out.KeyMaterial),
	}, nil
}
