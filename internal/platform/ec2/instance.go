package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// RunInstance launches exactly one instance.
// Each call carries a fresh client token so transport-level retries of the
// same request cannot launch a second instance.
func (c *RealClient) RunInstance(ctx context.Context, opts InstanceOpts) (*types.Instance, error) {
	input := &awsec2.RunInstancesInput{
		ImageId:      aws.String(opts.ImageID),
		InstanceType: types.InstanceType(opts.InstanceType),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
		SubnetId:     aws.String(opts.SubnetID),
		ClientToken:  aws.String(c.clientToken()),
	}
	if opts.KeyName != "" {
		input.KeyName = aws.String(opts.KeyName)
	}
	if len(opts.SecurityGroupIDs) > 0 {
		input.SecurityGroupIds = opts.SecurityGroupIDs
	}

	out, err := c.ec2.RunInstances(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run instance in %s: %w", opts.SubnetID, err)
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("run instance in %s returned no instances", opts.SubnetID)
	}
	return &out.Instances[0], nil
}

// GetInstances lists instances matching filters across all reservations.
func (c *RealClient) GetInstances(ctx context.Context, filters ...Filter) ([]types.Instance, error) {
	p := awsec2.NewDescribeInstancesPaginator(c.ec2, &awsec2.DescribeInstancesInput{Filters: toSDKFilters(filters)})
	instances, err := collect(ctx, p, flattenReservations)
	if err != nil {
		return nil, fmt.Errorf("failed to describe instances: %w", err)
	}
	return instances, nil
}

// GetInstance refreshes a single instance by id.
// A freshly launched id may not be visible yet; that is reported as nil.
func (c *RealClient) GetInstance(ctx context.Context, instanceID string) (*types.Instance, error) {
	out, err := c.ec2.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{InstanceIds: []string{instanceID}})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe instance %s: %w", instanceID, err)
	}
	instances := flattenReservations(out)
	if len(instances) == 0 {
		return nil, nil
	}
	return &instances[0], nil
}

// TerminateInstance requests termination. It returns before the instance is gone.
func (c *RealClient) TerminateInstance(ctx context.Context, instanceID string) error {
	if _, err := c.ec2.TerminateInstances(ctx, &awsec2.TerminateInstancesInput{InstanceIds: []string{instanceID}}); err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
	}
	return nil
}

func flattenReservations(out *awsec2.DescribeInstancesOutput) []types.Instance {
	var instances []types.Instance
	for _, r := range out.Reservations {
		instances = append(instances, r.Instances...)
	}
	return instances
}

// InstanceState returns the state name of an instance, or "" if unknown.
func InstanceState(inst *types.Instance) types.InstanceStateName {
	if inst == nil || inst.State == nil {
		return ""
	}
	return inst.State.Name
}
