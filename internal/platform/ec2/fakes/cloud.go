// Package fakes provides a stateful in-memory implementation of the EC2
// client and of the key backup store for tests.
//
// The fake enforces the dependency rules of the real provider that the
// reconcilers rely on: a network cannot be deleted while subnets, gateways,
// extra route tables, security groups or live instances reference it, and
// instances move through pending/running and shutting-down/terminated only
// when they are refreshed with GetInstance.
package fakes

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
)

// Cloud simulates one region of the EC2 API.
type Cloud struct {
	mu sync.Mutex

	// PendingRefreshes is how many GetInstance calls a launched instance
	// stays pending for. TerminatingRefreshes is the same for shutting-down.
	PendingRefreshes     int
	TerminatingRefreshes int

	// HiddenRefreshes is how many GetInstance calls report a launched
	// instance as unknown before it becomes visible.
	HiddenRefreshes int

	vpcs           []*types.Vpc
	gateways       []*types.InternetGateway
	routeTables    []*types.RouteTable
	subnets        []*types.Subnet
	securityGroups []*types.SecurityGroup
	instances      []*instance
	addresses      []*types.Address
	keyPairs       []*types.KeyPairInfo

	nextID   map[string]int
	calls    map[string]int
	failures map[string]error
}

type instance struct {
	types.Instance
	refreshes int
	hidden    int
}

var _ ec2internal.Client = (*Cloud)(nil)

// NewCloud creates an empty fake region.
func NewCloud() *Cloud {
	return &Cloud{
		PendingRefreshes:     1,
		TerminatingRefreshes: 1,
		nextID:               make(map[string]int),
		calls:                make(map[string]int),
		failures:             make(map[string]error),
	}
}

// FailOn makes every subsequent call of method return err. A nil err clears it.
func (c *Cloud) FailOn(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, method)
		return
	}
	c.failures[method] = err
}

// Calls returns how many times method was invoked.
func (c *Cloud) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// Mutations returns the number of calls that changed remote state, grouped
// into creations and deletions.
func (c *Cloud) Mutations() (creations, deletions int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for method, n := range c.calls {
		switch {
		case strings.HasPrefix(method, "Create"), strings.HasPrefix(method, "Allocate"),
			strings.HasPrefix(method, "RunInstance"), strings.HasPrefix(method, "Attach"),
			strings.HasPrefix(method, "Associate"), strings.HasPrefix(method, "Authorize"):
			creations += n
		case strings.HasPrefix(method, "Delete"), strings.HasPrefix(method, "Terminate"),
			strings.HasPrefix(method, "Release"), strings.HasPrefix(method, "Detach"),
			strings.HasPrefix(method, "Disassociate"), strings.HasPrefix(method, "Revoke"):
			deletions += n
		}
	}
	return creations, deletions
}

// ResetCalls clears the call counters.
func (c *Cloud) ResetCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = make(map[string]int)
}

// enter records a call and returns an injected failure. Callers hold c.mu.
func (c *Cloud) enter(method string) error {
	c.calls[method]++
	return c.failures[method]
}

func (c *Cloud) newID(prefix string) string {
	c.nextID[prefix]++
	return fmt.Sprintf("%s-%04d", prefix, c.nextID[prefix])
}

func apiError(code, format string, args ...any) error {
	return &smithy.GenericAPIError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// TagResource sets tags on any known resource.
func (c *Cloud) TagResource(_ context.Context, resourceID string, tags map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("TagResource"); err != nil {
		return err
	}

	target := c.tagsOf(resourceID)
	if target == nil {
		return apiError("InvalidID.NotFound", "The ID '%s' is not valid", resourceID)
	}
	for k, v := range tags {
		*target = setTag(*target, k, v)
	}
	return nil
}

func (c *Cloud) tagsOf(id string) *[]types.Tag {
	for _, v := range c.vpcs {
		if aws.ToString(v.VpcId) == id {
			return &v.Tags
		}
	}
	for _, g := range c.gateways {
		if aws.ToString(g.InternetGatewayId) == id {
			return &g.Tags
		}
	}
	for _, rt := range c.routeTables {
		if aws.ToString(rt.RouteTableId) == id {
			return &rt.Tags
		}
	}
	for _, s := range c.subnets {
		if aws.ToString(s.SubnetId) == id {
			return &s.Tags
		}
	}
	for _, sg := range c.securityGroups {
		if aws.ToString(sg.GroupId) == id {
			return &sg.Tags
		}
	}
	for _, i := range c.instances {
		if aws.ToString(i.InstanceId) == id {
			return &i.Tags
		}
	}
	for _, a := range c.addresses {
		if aws.ToString(a.AllocationId) == id {
			return &a.Tags
		}
	}
	for _, k := range c.keyPairs {
		if aws.ToString(k.KeyPairId) == id {
			return &k.Tags
		}
	}
	return nil
}

func setTag(tags []types.Tag, key, value string) []types.Tag {
	for i := range tags {
		if aws.ToString(tags[i].Key) == key {
			tags[i].Value = aws.String(value)
			return tags
		}
	}
	return append(tags, types.Tag{Key: aws.String(key), Value: aws.String(value)})
}

// attrs returns the values a resource exposes for a filter name.
type attrs func(filter string) ([]string, bool)

// matches reports whether a resource satisfies every filter.
func matches(filters []ec2internal.Filter, tags []types.Tag, get attrs) (bool, error) {
	for _, f := range filters {
		var have []string
		if key, ok := strings.CutPrefix(f.Name, "tag:"); ok {
			if v := ec2internal.TagValue(tags, key); v != "" {
				have = []string{v}
			}
		} else {
			values, supported := get(f.Name)
			if !supported {
				return false, apiError("InvalidParameterValue", "The filter '%s' is invalid", f.Name)
			}
			have = values
		}
		if !slices.ContainsFunc(have, func(v string) bool { return slices.Contains(f.Values, v) }) {
			return false, nil
		}
	}
	return true, nil
}

// filterList returns copies of the items matching filters, in creation order.
func filterList[T, O any](items []*T, filters []ec2internal.Filter, tags func(*T) []types.Tag, get func(*T) attrs, clone func(*T) O) ([]O, error) {
	out := []O{}
	for _, item := range items {
		ok, err := matches(filters, tags(item), get(item))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, clone(item))
		}
	}
	return out, nil
}

func one(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
