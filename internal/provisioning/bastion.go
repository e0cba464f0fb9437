package provisioning

import "fmt"

// BastionNode describes how to reach one bastion host. It is rebuilt on
// every successful reconcile and never persisted.
type BastionNode struct {
	Name     string
	PublicIP string
	User     string
	KeyFile  string
}

// Target returns the user@host login target.
func (b BastionNode) Target() string {
	return b.User + "@" + b.PublicIP
}

// ConnectCommand returns the ssh command line that logs into the bastion.
// Host keys are not pinned because bastions are replaced freely.
func (b BastionNode) ConnectCommand() string {
	return fmt.Sprintf("ssh -i %s -o UserKnownHostsFile=/dev/null -o StrictHostKeyChecking=no %s",
		b.KeyFile, b.Target())
}
