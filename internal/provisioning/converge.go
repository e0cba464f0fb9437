package provisioning

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/util/labels"
	"github.com/imamik/vpcctl/internal/util/retry"
)

// FindByName returns the first resource whose Name tag equals name, or nil
// when nothing matches. Name tags are expected to be unique; duplicates are
// not detected.
func FindByName[T any](
	ctx context.Context,
	list func(context.Context, ...ec2internal.Filter) ([]T, error),
	name string,
) (*T, error) {
	return first(list(ctx, ec2internal.ByName(name)))
}

// FindByNameInNetwork is FindByName restricted to one network.
func FindByNameInNetwork[T any](
	ctx context.Context,
	list func(context.Context, ...ec2internal.Filter) ([]T, error),
	name, networkID string,
) (*T, error) {
	return first(list(ctx, ec2internal.ByName(name), ec2internal.InNetwork(networkID)))
}

func first[T any](items []T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// TagWithName sets the Name tag and the ownership tags on a resource.
// Re-tagging with the same values is a no-op remotely.
func TagWithName(ctx context.Context, tagger ec2internal.Tagger, resourceID, name, network string) error {
	return TagWith(ctx, tagger, resourceID, labels.NewLabelBuilder(name, network))
}

// TagWith applies every tag of lb to a resource.
func TagWith(ctx context.Context, tagger ec2internal.Tagger, resourceID string, lb *labels.LabelBuilder) error {
	if err := tagger.TagResource(ctx, resourceID, lb.Build()); err != nil {
		return fmt.Errorf("failed to tag %s: %w", resourceID, err)
	}
	return nil
}

// WaitForInstanceState refreshes an instance until its observed state equals
// target. An id the provider does not report is not visible yet after a
// launch, or already purged when waiting for terminated; the latter returns a
// nil instance. It gives up after the poll policy's MaxAttempts (unbounded
// when 0) or when ctx is cancelled.
func WaitForInstanceState(ctx *Context, instanceID string, target types.InstanceStateName) (*types.Instance, error) {
	policy := ctx.PollPolicy()

	var inst *types.Instance
	err := retry.Poll(ctx, policy.Interval, policy.MaxAttempts, func() (bool, error) {
		refreshed, err := ctx.Cloud.Compute.GetInstance(ctx, instanceID)
		if err != nil {
			return false, err
		}
		if refreshed == nil {
			inst = nil
			return target == types.InstanceStateNameTerminated, nil
		}
		inst = refreshed
		return ec2internal.InstanceState(inst) == target, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for instance %s to be %s: %w", instanceID, target, err)
	}
	return inst, nil
}
