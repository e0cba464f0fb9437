package provisioning_test

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/vpcctl/internal/config"
	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/provisioning/compute"
	"github.com/imamik/vpcctl/internal/provisioning/destroy"
	"github.com/imamik/vpcctl/internal/provisioning/infrastructure"
	testutil "github.com/imamik/vpcctl/internal/testing"
)

var _ = Describe("Network lifecycle", func() {
	var (
		fixture *testutil.CloudFixture
		cfg     *config.NetworkConfig
		ctx     context.Context
	)

	converge := func() *provisioning.Context {
		GinkgoHelper()
		pCtx := fixture.Context(ctx, cfg)
		Expect(provisioning.RunPhases(pCtx, []provisioning.Phase{
			infrastructure.NewProvisioner(),
			compute.NewProvisioner(),
		})).To(Succeed())
		return pCtx
	}

	teardown := func() {
		GinkgoHelper()
		pCtx := fixture.Context(ctx, cfg)
		Expect(provisioning.RunPhases(pCtx, []provisioning.Phase{destroy.NewProvisioner()})).To(Succeed())
	}

	inventory := func() *provisioning.Inventory {
		GinkgoHelper()
		inv, err := provisioning.CollectInventory(ctx, fixture.Clients(), cfg.Name)
		Expect(err).NotTo(HaveOccurred())
		return inv
	}

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		DeferCleanup(cancel)

		fixture = testutil.NewCloudFixture(GinkgoT())
		cfg = testutil.MinimalConfig()
	})

	Describe("converging test-net", func() {
		var pCtx *provisioning.Context

		BeforeEach(func() {
			pCtx = converge()
		})

		It("creates exactly one network", func() {
			networks, err := fixture.Cloud.GetNetworks(ctx, ec2internal.ByName("test-net"))
			Expect(err).NotTo(HaveOccurred())
			Expect(networks).To(HaveLen(1))
			Expect(aws.ToString(networks[0].CidrBlock)).To(Equal("10.0.0.0/16"))
		})

		It("routes the subnet through one public table with one default route to the gateway", func() {
			networkID := pCtx.State.NetworkID()

			gateways, err := fixture.Cloud.GetGateways(ctx, ec2internal.AttachedToNetwork(networkID))
			Expect(err).NotTo(HaveOccurred())
			Expect(gateways).To(HaveLen(1))
			gatewayID := aws.ToString(gateways[0].InternetGatewayId)

			tables, err := fixture.Cloud.GetRouteTables(ctx, ec2internal.ByName("public"), ec2internal.InNetwork(networkID))
			Expect(err).NotTo(HaveOccurred())
			Expect(tables).To(HaveLen(1))

			var defaults []types.Route
			for _, r := range tables[0].Routes {
				if aws.ToString(r.DestinationCidrBlock) == "0.0.0.0/0" {
					defaults = append(defaults, r)
				}
			}
			Expect(defaults).To(HaveLen(1))
			Expect(aws.ToString(defaults[0].GatewayId)).To(Equal(gatewayID))

			subnets, err := fixture.Cloud.GetSubnets(ctx, ec2internal.InNetwork(networkID))
			Expect(err).NotTo(HaveOccurred())
			Expect(subnets).To(HaveLen(1))

			var associated []string
			for _, a := range tables[0].Associations {
				associated = append(associated, aws.ToString(a.SubnetId))
			}
			Expect(associated).To(ConsistOf(aws.ToString(subnets[0].SubnetId)))
		})

		It("runs one tagged bastion with an elastic address", func() {
			instances, err := fixture.Cloud.GetInstances(ctx,
				ec2internal.ByName("bastion-a"),
				ec2internal.InstanceStates(types.InstanceStateNameRunning))
			Expect(err).NotTo(HaveOccurred())
			Expect(instances).To(HaveLen(1))

			addresses, err := fixture.Cloud.GetAddresses(ctx, ec2internal.ByInstance(aws.ToString(instances[0].InstanceId)))
			Expect(err).NotTo(HaveOccurred())
			Expect(addresses).To(HaveLen(1))

			Expect(pCtx.State.Bastions).To(HaveLen(1))
			node := pCtx.State.Bastions[0]
			Expect(node.Name).To(Equal("bastion-a"))
			Expect(node.User).To(Equal("ubuntu"))
			Expect(node.PublicIP).NotTo(BeEmpty())
			Expect(node.PublicIP).To(Equal(aws.ToString(addresses[0].PublicIp)))
		})

		It("applies exactly the three bastion rules", func() {
			groups, err := fixture.Cloud.GetSecurityGroups(ctx,
				ec2internal.ByGroupName("test-net-bastion"),
				ec2internal.InNetwork(pCtx.State.NetworkID()))
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(1))

			Expect(rulePorts(groups[0].IpPermissions)).To(ConsistOf(int32(22)))
			Expect(rulePorts(groups[0].IpPermissionsEgress)).To(ConsistOf(int32(443), int32(80)))
		})

		It("backs the key pair up to the account bucket", func() {
			key, err := fixture.Cloud.GetKeyPair(ctx, "test-net-bastion")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).NotTo(BeNil())

			data, encrypted, ok := fixture.Blobs.Object("test-keys-akiatestaccount", "test-net-bastion.pem")
			Expect(ok).To(BeTrue())
			Expect(encrypted).To(BeTrue())
			Expect(string(data)).To(ContainSubstring("PRIVATE KEY"))
			Expect(pCtx.KeyFile()).To(BeAnExistingFile())
		})

		It("changes nothing on a second run", func() {
			first := pCtx.State.Bastions
			fixture.Cloud.ResetCalls()

			again := converge()

			creations, deletions := fixture.Cloud.Mutations()
			Expect(creations).To(BeZero())
			Expect(deletions).To(BeZero())
			Expect(again.State.NetworkID()).To(Equal(pCtx.State.NetworkID()))
			Expect(again.State.Bastions).To(Equal(first))
		})

		It("tears down to nothing, and a second teardown deletes nothing", func() {
			teardown()
			Expect(inventory().Exists()).To(BeFalse())

			fixture.Cloud.ResetCalls()
			teardown()

			_, deletions := fixture.Cloud.Mutations()
			Expect(deletions).To(BeZero())
		})

		It("reuses the key pair when converging after a teardown", func() {
			teardown()
			fixture.Cloud.ResetCalls()

			again := converge()

			Expect(fixture.Cloud.Calls("CreateKeyPair")).To(BeZero())
			Expect(fixture.Cloud.Calls("CreateNetwork")).To(Equal(1))
			Expect(again.State.Bastions).To(HaveLen(1))
		})
	})

	DescribeTable("recovering from an interrupted run",
		func(method string) {
			fixture.Cloud.FailOn(method, errors.New("RequestLimitExceeded"))
			pCtx := fixture.Context(ctx, cfg)
			Expect(provisioning.RunPhases(pCtx, []provisioning.Phase{
				infrastructure.NewProvisioner(),
				compute.NewProvisioner(),
			})).NotTo(Succeed())

			fixture.Cloud.FailOn(method, nil)
			converge()

			inv := inventory()
			Expect(inv.Count(provisioning.KindNetwork)).To(Equal(1))
			Expect(inv.Count(provisioning.KindGateway)).To(Equal(1))
			Expect(inv.Count(provisioning.KindSubnet)).To(Equal(1))
			Expect(inv.Count(provisioning.KindInstance)).To(Equal(1))
			Expect(inv.Count(provisioning.KindAddress)).To(Equal(1))
			Expect(inv.Count(provisioning.KindSecurityGroup)).To(Equal(2), "bastion group plus default")
		},
		Entry("before the gateway is attached", "AttachGateway"),
		Entry("before the subnet exists", "CreateSubnet"),
		Entry("before the bastion launches", "RunInstance"),
		Entry("between allocating and associating the address", "AssociateAddress"),
	)

	When("the network was never created", func() {
		It("tears down without error or deletions", func() {
			teardown()
			_, deletions := fixture.Cloud.Mutations()
			Expect(deletions).To(BeZero())
		})
	})
})

func rulePorts(perms []types.IpPermission) []int32 {
	var out []int32
	for _, p := range perms {
		Expect(aws.ToString(p.IpProtocol)).To(Equal("tcp"))
		Expect(p.IpRanges).To(HaveLen(1))
		Expect(aws.ToString(p.IpRanges[0].CidrIp)).To(Equal("0.0.0.0/0"))
		out = append(out, aws.ToInt32(p.FromPort))
	}
	return out
}
