package infrastructure

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
	testutil "github.com/imamik/vpcctl/internal/testing"
)

func TestProvisioner_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "infrastructure", NewProvisioner().Name())
}

func TestProvision_CreatesTopology(t *testing.T) {
	t.Parallel()
	f := testutil.NewCloudFixture(t)
	cfg := testutil.TwoSubnetConfig()
	ctx := f.Context(testutil.TestContext(t), cfg)

	require.NoError(t, NewProvisioner().Provision(ctx))

	// Network
	vpcs, err := f.Cloud.GetNetworks(ctx, ec2internal.ByName("test-net"))
	require.NoError(t, err)
	require.Len(t, vpcs, 1)
	networkID := aws.ToString(vpcs[0].VpcId)
	assert.Equal(t, "10.0.0.0/16", aws.ToString(vpcs[0].CidrBlock))
	assert.Equal(t, networkID, ctx.State.NetworkID())

	// Gateway, attached
	gateways, err := f.Cloud.GetGateways(ctx, ec2internal.ByName("test-net"))
	require.NoError(t, err)
	require.Len(t, gateways, 1)
	gatewayID := aws.ToString(gateways[0].InternetGatewayId)
	require.Len(t, gateways[0].Attachments, 1)
	assert.Equal(t, networkID, aws.ToString(gateways[0].Attachments[0].VpcId))

	// Route table with exactly one default route via the gateway
	tables, err := f.Cloud.GetRouteTables(ctx, ec2internal.ByName("public"), ec2internal.InNetwork(networkID))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	var defaults int
	for _, r := range tables[0].Routes {
		if aws.ToString(r.DestinationCidrBlock) == Anywhere {
			defaults++
			assert.Equal(t, gatewayID, aws.ToString(r.GatewayId))
		}
	}
	assert.Equal(t, 1, defaults)

	// Subnets, each associated with the public table
	for _, sc := range cfg.Subnets {
		subnets, err := f.Cloud.GetSubnets(ctx, ec2internal.ByName(sc.Name), ec2internal.InNetwork(networkID))
		require.NoError(t, err)
		require.Len(t, subnets, 1, sc.Name)
		assert.Equal(t, sc.CIDRBlock, aws.ToString(subnets[0].CidrBlock))
		assert.Equal(t, sc.AvailabilityZone, aws.ToString(subnets[0].AvailabilityZone))
		assert.True(t, isAssociated(&tables[0], aws.ToString(subnets[0].SubnetId)), sc.Name)

		id, err := ctx.State.SubnetID(sc.Name)
		require.NoError(t, err)
		assert.Equal(t, aws.ToString(subnets[0].SubnetId), id)
	}

	assert.Equal(t, []string{"test-net", "test-net", "public", "public-a", "public-b"},
		append(append(append(
			f.Observer.Resources(provisioning.EventResourceCreated, provisioning.KindNetwork),
			f.Observer.Resources(provisioning.EventResourceCreated, provisioning.KindGateway)...),
			f.Observer.Resources(provisioning.EventResourceCreated, provisioning.KindRouteTable)...),
			f.Observer.Resources(provisioning.EventResourceCreated, provisioning.KindSubnet)...))
}

func TestProvision_Idempotent(t *testing.T) {
	t.Parallel()
	f := testutil.NewCloudFixture(t)
	cfg := testutil.TwoSubnetConfig()

	first := f.Context(testutil.TestContext(t), cfg)
	require.NoError(t, NewProvisioner().Provision(first))

	f.Cloud.ResetCalls()
	second := f.Context(testutil.TestContext(t), cfg)
	require.NoError(t, NewProvisioner().Provision(second))

	creations, deletions := f.Cloud.Mutations()
	assert.Zero(t, creations, "second run must not create anything")
	assert.Zero(t, deletions)

	assert.Equal(t, first.State.NetworkID(), second.State.NetworkID())
	assert.Equal(t, aws.ToString(first.State.Gateway.InternetGatewayId), aws.ToString(second.State.Gateway.InternetGatewayId))
	assert.Equal(t, aws.ToString(first.State.RouteTable.RouteTableId), aws.ToString(second.State.RouteTable.RouteTableId))
	for _, name := range cfg.SubnetNames() {
		a, _ := first.State.SubnetID(name)
		b, _ := second.State.SubnetID(name)
		assert.Equal(t, a, b, name)
	}
	assert.Len(t, f.Observer.EventsOfType(provisioning.EventResourceExists), 5)
}

func TestProvision_ReusesExistingNetworkAsFound(t *testing.T) {
	t.Parallel()
	f := testutil.NewCloudFixture(t)
	ctx := f.Context(testutil.TestContext(t), testutil.MinimalConfig())

	vpc, err := f.Cloud.CreateNetwork(ctx, "10.0.0.0/16")
	require.NoError(t, err)
	require.NoError(t, f.Cloud.TagResource(ctx, aws.ToString(vpc.VpcId), map[string]string{"Name": "test-net"}))

	require.NoError(t, NewProvisioner().ProvisionNetwork(ctx))
	assert.Equal(t, aws.ToString(vpc.VpcId), ctx.State.NetworkID())
	assert.Equal(t, 1, f.Cloud.Calls("CreateNetwork"))
}

func TestProvision_CompletesInterruptedRun(t *testing.T) {
	t.Parallel()
	f := testutil.NewCloudFixture(t)
	ctx := f.Context(testutil.TestContext(t), testutil.MinimalConfig())
	p := NewProvisioner()
	require.NoError(t, p.ProvisionNetwork(ctx))
	networkID := ctx.State.NetworkID()

	// Leave a tagged but unattached gateway, a route table without its
	// default route, and an unassociated subnet.
	gw, err := f.Cloud.CreateGateway(ctx)
	require.NoError(t, err)
	require.NoError(t, provisioning.TagWithName(ctx, f.Cloud, aws.ToString(gw.InternetGatewayId), "test-net", "test-net"))
	rt, err := f.Cloud.CreateRouteTable(ctx, networkID)
	require.NoError(t, err)
	require.NoError(t, provisioning.TagWithName(ctx, f.Cloud, aws.ToString(rt.RouteTableId), "public", "test-net"))
	subnet, err := f.Cloud.CreateSubnet(ctx, networkID, "10.0.1.0/24", "eu-west-1a")
	require.NoError(t, err)
	require.NoError(t, provisioning.TagWithName(ctx, f.Cloud, aws.ToString(subnet.SubnetId), "public-a", "test-net"))

	require.NoError(t, p.Provision(f.Context(testutil.TestContext(t), testutil.MinimalConfig())))

	gateways, err := f.Cloud.GetGateways(ctx, ec2internal.AttachedToNetwork(networkID))
	require.NoError(t, err)
	require.Len(t, gateways, 1)
	assert.Equal(t, aws.ToString(gw.InternetGatewayId), aws.ToString(gateways[0].InternetGatewayId))

	tables, err := f.Cloud.GetRouteTables(ctx, ec2internal.ByName("public"))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.True(t, HasDefaultRoute(tables[0]))
	assert.True(t, isAssociated(&tables[0], aws.ToString(subnet.SubnetId)))

	assert.Equal(t, 1, f.Cloud.Calls("CreateGateway"))
	assert.Equal(t, 1, f.Cloud.Calls("CreateRouteTable"))
	assert.Equal(t, 1, f.Cloud.Calls("CreateSubnet"))
}

func TestProvision_SubnetBoundElsewhereIsKept(t *testing.T) {
	t.Parallel()
	f := testutil.NewCloudFixture(t)
	ctx := f.Context(testutil.TestContext(t), testutil.MinimalConfig())
	p := NewProvisioner()
	require.NoError(t, p.ProvisionNetwork(ctx))
	networkID := ctx.State.NetworkID()

	subnet, err := f.Cloud.CreateSubnet(ctx, networkID, "10.0.1.0/24", "eu-west-1a")
	require.NoError(t, err)
	require.NoError(t, provisioning.TagWithName(ctx, f.Cloud, aws.ToString(subnet.SubnetId), "public-a", "test-net"))
	private, err := f.Cloud.CreateRouteTable(ctx, networkID)
	require.NoError(t, err)
	_, err = f.Cloud.AssociateRouteTable(ctx, aws.ToString(private.RouteTableId), aws.ToString(subnet.SubnetId))
	require.NoError(t, err)

	require.NoError(t, p.Provision(ctx))
	id, err := ctx.State.SubnetID("public-a")
	require.NoError(t, err)
	assert.Equal(t, aws.ToString(subnet.SubnetId), id)
	assert.Contains(t, f.Observer.Messages(), "[infrastructure] Warning: subnet public-a is associated with another route table")
}

func TestProvision_Failures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		method  string
		wantErr string
	}{
		{"GetNetworks", "failed to look up network test-net"},
		{"CreateNetwork", "failed to create network test-net"},
		{"CreateGateway", "failed to create internet gateway test-net"},
		{"AttachGateway", "failed to attach internet gateway"},
		{"CreateRouteTable", "failed to create route table public"},
		{"CreateRoute", "failed to create default route"},
		{"CreateSubnet", "failed to create subnet public-a"},
		{"AssociateRouteTable", "failed to associate subnet public-a"},
		{"TagResource", "failed to tag"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			f := testutil.NewCloudFixture(t)
			f.Cloud.FailOn(tt.method, errors.New("injected"))
			ctx := f.Context(testutil.TestContext(t), testutil.MinimalConfig())

			err := NewProvisioner().Provision(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "injected")
		})
	}
}

func TestProvision_FailureEmitsResourceFailed(t *testing.T) {
	t.Parallel()
	f := testutil.NewCloudFixture(t)
	f.Cloud.FailOn("CreateSubnet", errors.New("InsufficientFreeAddressesInSubnet"))
	ctx := f.Context(testutil.TestContext(t), testutil.MinimalConfig())

	require.Error(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, []string{"public-a"}, f.Observer.Resources(provisioning.EventResourceFailed, provisioning.KindSubnet))
}

func TestProvisionSteps_RequirePredecessors(t *testing.T) {
	t.Parallel()
	f := testutil.NewCloudFixture(t)
	ctx := f.Context(testutil.TestContext(t), testutil.MinimalConfig())
	p := NewProvisioner()

	assert.ErrorContains(t, p.ProvisionGateway(ctx), "network not initialized")
	assert.ErrorContains(t, p.ProvisionRouteTable(ctx), "must be provisioned")
	assert.ErrorContains(t, p.ProvisionSubnets(ctx), "route table not initialized")
}
