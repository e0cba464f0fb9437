package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// GetAddresses lists elastic addresses matching filters.
func (c *RealClient) GetAddresses(ctx context.Context, filters ...Filter) ([]types.Address, error) {
	out, err := c.ec2.DescribeAddresses(ctx, &awsec2.DescribeAddressesInput{Filters: toSDKFilters(filters)})
	if err != nil {
		return nil, fmt.Errorf("failed to describe addresses: %w", err)
	}
	return out.Addresses, nil
}

// AllocateAddress allocates a new elastic address for use in a network.
func (c *RealClient) AllocateAddress(ctx context.Context) (*types.Address, error) {
	out, err := c.ec2.AllocateAddress(ctx, &awsec2.AllocateAddressInput{Domain: types.DomainTypeVpc})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate address: %w", err)
	}
	return &types.Address{
		AllocationId: out.AllocationId,
		PublicIp:     out.PublicIp,
		Domain:       out.Domain,
	}, nil
}

// AssociateAddress binds an allocated address to an instance.
func (c *RealClient) AssociateAddress(ctx context.Context, allocationID, instanceID string) (string, error) {
	out, err := c.ec2.AssociateAddress(ctx, &awsec2.AssociateAddressInput{
		AllocationId: aws.String(allocationID),
		InstanceId:   aws.String(instanceID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to associate %s with %s: %w", allocationID, instanceID, err)
	}
	return aws.ToString(out.AssociationId), nil
}

// DisassociateAddress unbinds an address from its instance.
func (c *RealClient) DisassociateAddress(ctx context.Context, associationID string) error {
	if _, err := c.ec2.DisassociateAddress(ctx, &awsec2.DisassociateAddressInput{AssociationId: aws.String(associationID)}); err != nil {
		return fmt.Errorf("failed to disassociate address %s: %w", associationID, err)
	}
	return nil
}

// ReleaseAddress returns an unbound address to the provider.
func (c *RealClient) ReleaseAddress(ctx context.Context, allocationID string) error {
	if _, err := c.ec2.ReleaseAddress(ctx, &awsec2.ReleaseAddressInput{AllocationId: aws.String(allocationID)}); err != nil {
		return fmt.Errorf("failed to release address %s: %w", allocationID, err)
	}
	return nil
}
