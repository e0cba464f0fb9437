package labels

import "sort"

// Standard tag keys.
const (
	// KeyName is the provider's display-name tag and the lookup key for every resource.
	KeyName = "Name"

	// KeyNetwork identifies which network a resource belongs to
	KeyNetwork = "vpcctl.io/network"

	// KeyRole identifies the role of a resource (bastion)
	KeyRole = "vpcctl.io/role"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "vpcctl.io/managed-by"
)

// Tag values
const (
	RoleBastion = "bastion"

	ManagedByVpcctl = "vpcctl"
)

// LabelBuilder provides a fluent interface for building resource tags.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new builder with the Name tag and network ownership pre-set.
func NewLabelBuilder(name, network string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyName:      name,
			KeyNetwork:   network,
			KeyManagedBy: ManagedByVpcctl,
		},
	}
}

// WithRole adds a role tag.
func (lb *LabelBuilder) WithRole(role string) *LabelBuilder {
	lb.labels[KeyRole] = role
	return lb
}

// Merge adds all entries of extra, overriding existing keys.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the tag set.
func (lb *LabelBuilder) Build() map[string]string {
	out := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		out[k] = v
	}
	return out
}

// Keys returns the tag keys in sorted order.
func Keys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
