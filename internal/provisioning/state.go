package provisioning

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Infrastructure results (populated by infrastructure provisioner)
	Network    *types.Vpc
	Gateway    *types.InternetGateway
	RouteTable *types.RouteTable
	Subnets    map[string]*types.Subnet // subnet name -> subnet

	// Compute results (populated by compute provisioner)
	KeyName         string
	SecurityGroupID string
	Bastions        []BastionNode // in subnet order
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		Subnets: make(map[string]*types.Subnet),
	}
}

// NetworkID returns the id of the converged network, or "" before the
// infrastructure phase ran.
func (s *State) NetworkID() string {
	if s.Network == nil {
		return ""
	}
	return aws.ToString(s.Network.VpcId)
}

// SubnetID returns the id of the named subnet.
func (s *State) SubnetID(name string) (string, error) {
	subnet, ok := s.Subnets[name]
	if !ok || subnet == nil {
		return "", fmt.Errorf("subnet %q has not been provisioned", name)
	}
	return aws.ToString(subnet.SubnetId), nil
}
