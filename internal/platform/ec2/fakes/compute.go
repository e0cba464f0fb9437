package fakes

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/util/keygen"
)

func allowAll() types.IpPermission {
	return types.IpPermission{
		IpProtocol: aws.String("-1"),
		IpRanges:   []types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
	}
}

func clonePermissions(perms []types.IpPermission) []types.IpPermission {
	out := make([]types.IpPermission, len(perms))
	for i, p := range perms {
		p.IpRanges = slices.Clone(p.IpRanges)
		p.UserIdGroupPairs = slices.Clone(p.UserIdGroupPairs)
		out[i] = p
	}
	return out
}

func cloneSecurityGroup(sg *types.SecurityGroup) types.SecurityGroup {
	out := *sg
	out.Tags = slices.Clone(sg.Tags)
	out.IpPermissions = clonePermissions(sg.IpPermissions)
	out.IpPermissionsEgress = clonePermissions(sg.IpPermissionsEgress)
	return out
}

func securityGroupAttrs(sg *types.SecurityGroup) attrs {
	return func(name string) ([]string, bool) {
		switch name {
		case "vpc-id":
			return one(aws.ToString(sg.VpcId)), true
		case "group-name":
			return one(aws.ToString(sg.GroupName)), true
		case "group-id":
			return one(aws.ToString(sg.GroupId)), true
		}
		return nil, false
	}
}

func (c *Cloud) findSecurityGroup(id string) *types.SecurityGroup {
	for _, sg := range c.securityGroups {
		if aws.ToString(sg.GroupId) == id {
			return sg
		}
	}
	return nil
}

// samePermission compares two rules on protocol, ports and ranges.
func samePermission(a, b types.IpPermission) bool {
	return aws.ToString(a.IpProtocol) == aws.ToString(b.IpProtocol) &&
		aws.ToInt32(a.FromPort) == aws.ToInt32(b.FromPort) &&
		aws.ToInt32(a.ToPort) == aws.ToInt32(b.ToPort) &&
		reflect.DeepEqual(cidrs(a), cidrs(b))
}

func cidrs(p types.IpPermission) []string {
	out := make([]string, 0, len(p.IpRanges))
	for _, r := range p.IpRanges {
		out = append(out, aws.ToString(r.CidrIp))
	}
	slices.Sort(out)
	return out
}

// GetSecurityGroups lists security groups matching filters.
func (c *Cloud) GetSecurityGroups(_ context.Context, filters ...ec2internal.Filter) ([]types.SecurityGroup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetSecurityGroups"); err != nil {
		return nil, err
	}
	return filterList(c.securityGroups, filters, func(sg *types.SecurityGroup) []types.Tag { return sg.Tags }, securityGroupAttrs, cloneSecurityGroup)
}

// CreateSecurityGroup creates a group with the provider's default allow-all egress rule.
func (c *Cloud) CreateSecurityGroup(_ context.Context, networkID, name, description string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateSecurityGroup"); err != nil {
		return "", err
	}
	if c.findVpc(networkID) == nil {
		return "", apiError("InvalidVpcID.NotFound", "The vpc ID '%s' does not exist", networkID)
	}
	for _, sg := range c.securityGroups {
		if aws.ToString(sg.VpcId) == networkID && aws.ToString(sg.GroupName) == name {
			return "", apiError("InvalidGroup.Duplicate", "The security group '%s' already exists for VPC '%s'", name, networkID)
		}
	}
	sg := &types.SecurityGroup{
		GroupId:             aws.String(c.newID("sg")),
		GroupName:           aws.String(name),
		Description:         aws.String(description),
		VpcId:               aws.String(networkID),
		IpPermissionsEgress: []types.IpPermission{allowAll()},
	}
	c.securityGroups = append(c.securityGroups, sg)
	return aws.ToString(sg.GroupId), nil
}

func (c *Cloud) authorize(method, groupID string, rules []types.IpPermission, egress bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter(method); err != nil {
		return err
	}
	sg := c.findSecurityGroup(groupID)
	if sg == nil {
		return apiError("InvalidGroup.NotFound", "The security group '%s' does not exist", groupID)
	}
	target := &sg.IpPermissions
	if egress {
		target = &sg.IpPermissionsEgress
	}
	for _, r := range rules {
		if slices.ContainsFunc(*target, func(p types.IpPermission) bool { return samePermission(p, r) }) {
			return apiError("InvalidPermission.Duplicate", "the specified rule already exists")
		}
	}
	*target = append(*target, clonePermissions(rules)...)
	return nil
}

func (c *Cloud) revoke(method, groupID string, rules []types.IpPermission, egress bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter(method); err != nil {
		return err
	}
	sg := c.findSecurityGroup(groupID)
	if sg == nil {
		return apiError("InvalidGroup.NotFound", "The security group '%s' does not exist", groupID)
	}
	target := &sg.IpPermissions
	if egress {
		target = &sg.IpPermissionsEgress
	}
	for _, r := range rules {
		i := slices.IndexFunc(*target, func(p types.IpPermission) bool { return samePermission(p, r) })
		if i < 0 {
			return apiError("InvalidPermission.NotFound", "The specified rule does not exist in this security group.")
		}
		*target = slices.Delete(*target, i, i+1)
	}
	return nil
}

// AuthorizeIngress adds inbound rules.
func (c *Cloud) AuthorizeIngress(_ context.Context, groupID string, rules []types.IpPermission) error {
	return c.authorize("AuthorizeIngress", groupID, rules, false)
}

// AuthorizeEgress adds outbound rules.
func (c *Cloud) AuthorizeEgress(_ context.Context, groupID string, rules []types.IpPermission) error {
	return c.authorize("AuthorizeEgress", groupID, rules, true)
}

// RevokeIngress removes inbound rules.
func (c *Cloud) RevokeIngress(_ context.Context, groupID string, rules []types.IpPermission) error {
	return c.revoke("RevokeIngress", groupID, rules, false)
}

// RevokeEgress removes outbound rules.
func (c *Cloud) RevokeEgress(_ context.Context, groupID string, rules []types.IpPermission) error {
	return c.revoke("RevokeEgress", groupID, rules, true)
}

// DeleteSecurityGroup deletes a group no live instance uses.
func (c *Cloud) DeleteSecurityGroup(_ context.Context, groupID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteSecurityGroup"); err != nil {
		return err
	}
	sg := c.findSecurityGroup(groupID)
	if sg == nil {
		return apiError("InvalidGroup.NotFound", "The security group '%s' does not exist", groupID)
	}
	if aws.ToString(sg.GroupName) == "default" {
		return apiError("CannotDelete", "the specified group: \"%s\" name: \"default\" cannot be deleted by a user", groupID)
	}
	for _, inst := range c.instances {
		if inst.State.Name == types.InstanceStateNameTerminated {
			continue
		}
		for _, g := range inst.SecurityGroups {
			if aws.ToString(g.GroupId) == groupID {
				return apiError("DependencyViolation", "resource %s has a dependent object", groupID)
			}
		}
	}
	c.securityGroups = slices.DeleteFunc(c.securityGroups, func(x *types.SecurityGroup) bool { return x == sg })
	return nil
}

func (c *Cloud) findInstance(id string) *instance {
	for _, inst := range c.instances {
		if aws.ToString(inst.InstanceId) == id {
			return inst
		}
	}
	return nil
}

// view returns a copy of an instance with its public address filled in.
func (c *Cloud) view(inst *instance) types.Instance {
	out := inst.Instance
	out.Tags = slices.Clone(inst.Tags)
	out.SecurityGroups = slices.Clone(inst.SecurityGroups)
	state := *inst.State
	out.State = &state
	for _, a := range c.addresses {
		if aws.ToString(a.InstanceId) == aws.ToString(inst.InstanceId) {
			out.PublicIpAddress = a.PublicIp
		}
	}
	return out
}

func instanceAttrs(inst *instance) attrs {
	return func(name string) ([]string, bool) {
		switch name {
		case "vpc-id":
			return one(aws.ToString(inst.VpcId)), true
		case "subnet-id":
			return one(aws.ToString(inst.SubnetId)), true
		case "instance-id":
			return one(aws.ToString(inst.InstanceId)), true
		case "instance-state-name":
			return one(string(inst.State.Name)), true
		}
		return nil, false
	}
}

// RunInstance launches one pending instance into a subnet.
func (c *Cloud) RunInstance(_ context.Context, opts ec2internal.InstanceOpts) (*types.Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("RunInstance"); err != nil {
		return nil, err
	}
	subnet := c.findSubnet(opts.SubnetID)
	if subnet == nil {
		return nil, apiError("InvalidSubnetID.NotFound", "The subnet ID '%s' does not exist", opts.SubnetID)
	}
	if opts.KeyName != "" && !slices.ContainsFunc(c.keyPairs, func(k *types.KeyPairInfo) bool { return aws.ToString(k.KeyName) == opts.KeyName }) {
		return nil, apiError("InvalidKeyPair.NotFound", "The key pair '%s' does not exist", opts.KeyName)
	}
	groups := make([]types.GroupIdentifier, 0, len(opts.SecurityGroupIDs))
	for _, id := range opts.SecurityGroupIDs {
		sg := c.findSecurityGroup(id)
		if sg == nil {
			return nil, apiError("InvalidGroup.NotFound", "The security group '%s' does not exist", id)
		}
		groups = append(groups, types.GroupIdentifier{GroupId: sg.GroupId, GroupName: sg.GroupName})
	}

	inst := &instance{Instance: types.Instance{
		InstanceId:     aws.String(c.newID("i")),
		ImageId:        aws.String(opts.ImageID),
		InstanceType:   types.InstanceType(opts.InstanceType),
		KeyName:        aws.String(opts.KeyName),
		SubnetId:       subnet.SubnetId,
		VpcId:          subnet.VpcId,
		SecurityGroups: groups,
		State:          &types.InstanceState{Name: types.InstanceStateNamePending},
	}, hidden: c.HiddenRefreshes}
	c.instances = append(c.instances, inst)
	out := c.view(inst)
	return &out, nil
}

// GetInstances lists instances matching filters without advancing their state.
func (c *Cloud) GetInstances(_ context.Context, filters ...ec2internal.Filter) ([]types.Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetInstances"); err != nil {
		return nil, err
	}
	return filterList(c.instances, filters, func(i *instance) []types.Tag { return i.Tags }, instanceAttrs, c.view)
}

// GetInstance refreshes one instance and advances pending or shutting-down
// instances once their refresh budget is spent.
func (c *Cloud) GetInstance(_ context.Context, instanceID string) (*types.Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetInstance"); err != nil {
		return nil, err
	}
	inst := c.findInstance(instanceID)
	if inst == nil {
		return nil, nil
	}
	if inst.hidden > 0 {
		inst.hidden--
		return nil, nil
	}

	switch inst.State.Name {
	case types.InstanceStateNamePending:
		inst.refreshes++
		if inst.refreshes >= c.PendingRefreshes {
			inst.State.Name = types.InstanceStateNameRunning
			inst.refreshes = 0
		}
	case types.InstanceStateNameShuttingDown:
		inst.refreshes++
		if inst.refreshes >= c.TerminatingRefreshes {
			inst.State.Name = types.InstanceStateNameTerminated
			inst.refreshes = 0
			c.releaseAssociations(instanceID)
		}
	}

	out := c.view(inst)
	return &out, nil
}

func (c *Cloud) releaseAssociations(instanceID string) {
	for _, a := range c.addresses {
		if aws.ToString(a.InstanceId) == instanceID {
			a.InstanceId = nil
			a.AssociationId = nil
		}
	}
}

// TerminateInstance moves an instance to shutting-down.
func (c *Cloud) TerminateInstance(_ context.Context, instanceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("TerminateInstance"); err != nil {
		return err
	}
	inst := c.findInstance(instanceID)
	if inst == nil {
		return apiError("InvalidInstanceID.NotFound", "The instance ID '%s' does not exist", instanceID)
	}
	if inst.State.Name != types.InstanceStateNameTerminated {
		inst.State.Name = types.InstanceStateNameShuttingDown
		inst.refreshes = 0
	}
	return nil
}

// SetInstanceState forces the state of an instance. Forcing terminated
// frees its addresses, as a real termination does.
func (c *Cloud) SetInstanceState(instanceID string, state types.InstanceStateName) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if inst := c.findInstance(instanceID); inst != nil {
		inst.State.Name = state
		inst.refreshes = 0
		if state == types.InstanceStateNameTerminated {
			c.releaseAssociations(instanceID)
		}
	}
}

func cloneAddress(a *types.Address) types.Address {
	out := *a
	out.Tags = slices.Clone(a.Tags)
	return out
}

func addressAttrs(a *types.Address) attrs {
	return func(name string) ([]string, bool) {
		switch name {
		case "instance-id":
			return one(aws.ToString(a.InstanceId)), true
		case "allocation-id":
			return one(aws.ToString(a.AllocationId)), true
		case "domain":
			return one(string(a.Domain)), true
		case "public-ip":
			return one(aws.ToString(a.PublicIp)), true
		}
		return nil, false
	}
}

func (c *Cloud) findAddress(allocationID string) *types.Address {
	for _, a := range c.addresses {
		if aws.ToString(a.AllocationId) == allocationID {
			return a
		}
	}
	return nil
}

// GetAddresses lists elastic addresses matching filters.
func (c *Cloud) GetAddresses(_ context.Context, filters ...ec2internal.Filter) ([]types.Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetAddresses"); err != nil {
		return nil, err
	}
	return filterList(c.addresses, filters, func(a *types.Address) []types.Tag { return a.Tags }, addressAttrs, cloneAddress)
}

// AllocateAddress allocates an address from the documentation range.
func (c *Cloud) AllocateAddress(_ context.Context) (*types.Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("AllocateAddress"); err != nil {
		return nil, err
	}
	c.nextID["ip"]++
	a := &types.Address{
		AllocationId: aws.String(c.newID("eipalloc")),
		PublicIp:     aws.String(fmt.Sprintf("198.51.100.%d", c.nextID["ip"])),
		Domain:       types.DomainTypeVpc,
	}
	c.addresses = append(c.addresses, a)
	out := cloneAddress(a)
	return &out, nil
}

// AssociateAddress binds an address to a running instance.
func (c *Cloud) AssociateAddress(_ context.Context, allocationID, instanceID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("AssociateAddress"); err != nil {
		return "", err
	}
	a := c.findAddress(allocationID)
	if a == nil {
		return "", apiError("InvalidAllocationID.NotFound", "The allocation ID '%s' does not exist", allocationID)
	}
	inst := c.findInstance(instanceID)
	if inst == nil {
		return "", apiError("InvalidInstanceID.NotFound", "The instance ID '%s' does not exist", instanceID)
	}
	if inst.State.Name != types.InstanceStateNameRunning {
		return "", apiError("IncorrectInstanceState", "The instance '%s' is not in a valid state for this operation.", instanceID)
	}
	if a.AssociationId != nil {
		return "", apiError("Resource.AlreadyAssociated", "resource %s is already associated with %s", allocationID, aws.ToString(a.InstanceId))
	}
	a.InstanceId = aws.String(instanceID)
	a.AssociationId = aws.String(c.newID("eipassoc"))
	return aws.ToString(a.AssociationId), nil
}

// DisassociateAddress unbinds an address.
func (c *Cloud) DisassociateAddress(_ context.Context, associationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DisassociateAddress"); err != nil {
		return err
	}
	for _, a := range c.addresses {
		if aws.ToString(a.AssociationId) == associationID {
			a.AssociationId = nil
			a.InstanceId = nil
			return nil
		}
	}
	return apiError("InvalidAssociationID.NotFound", "The association ID '%s' does not exist", associationID)
}

// ReleaseAddress releases an unbound address.
func (c *Cloud) ReleaseAddress(_ context.Context, allocationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("ReleaseAddress"); err != nil {
		return err
	}
	a := c.findAddress(allocationID)
	if a == nil {
		return apiError("InvalidAllocationID.NotFound", "The allocation ID '%s' does not exist", allocationID)
	}
	if a.AssociationId != nil {
		return apiError("InvalidIPAddress.InUse", "Address %s is in use.", aws.ToString(a.PublicIp))
	}
	c.addresses = slices.DeleteFunc(c.addresses, func(x *types.Address) bool { return x == a })
	return nil
}

// GetKeyPair returns a key pair by name, or nil.
func (c *Cloud) GetKeyPair(_ context.Context, name string) (*types.KeyPairInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetKeyPair"); err != nil {
		return nil, err
	}
	for _, k := range c.keyPairs {
		if aws.ToString(k.KeyName) == name {
			out := *k
			out.Tags = slices.Clone(k.Tags)
			return &out, nil
		}
	}
	return nil, nil
}

// CreateKeyPair creates a key pair with real OpenSSH private key material.
func (c *Cloud) CreateKeyPair(_ context.Context, name string) (*ec2internal.KeyPair, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateKeyPair"); err != nil {
		return nil, err
	}
	for _, k := range c.keyPairs {
		if aws.ToString(k.KeyName) == name {
			return nil, apiError("InvalidKeyPair.Duplicate", "The keypair '%s' already exists.", name)
		}
	}

	material, err := GeneratePrivateKey(name)
	if err != nil {
		return nil, err
	}
	kp := &types.KeyPairInfo{
		KeyName:   aws.String(name),
		KeyPairId: aws.String(c.newID("key")),
	}
	c.keyPairs = append(c.keyPairs, kp)
	return &ec2internal.KeyPair{Name: name, ID: aws.ToString(kp.KeyPairId), Material: material}, nil
}

// DeleteKeyPair removes a key pair. It is not part of the client surface and
// exists to stage "remote key vanished" scenarios.
func (c *Cloud) DeleteKeyPair(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyPairs = slices.DeleteFunc(c.keyPairs, func(k *types.KeyPairInfo) bool { return aws.ToString(k.KeyName) == name })
}

// GeneratePrivateKey returns a PEM-encoded OpenSSH ed25519 private key.
func GeneratePrivateKey(comment string) (string, error) {
	kp, err := keygen.GenerateEd25519KeyPair(comment)
	if err != nil {
		return "", err
	}
	return string(kp.PrivateKey), nil
}
