package naming

import (
	"fmt"
	"strings"
)

// RouteTable is the name of the single public route table of every network.
const RouteTable = "public"

// DefaultSecurityGroup is the group the provider creates with every network.
// It cannot be deleted and is skipped during teardown.
const DefaultSecurityGroup = "default"

// Naming functions for network resources.

func Gateway(network string) string {
	return network
}

func KeyPair(network string) string {
	return fmt.Sprintf("%s-bastion", network)
}

func SecurityGroup(network string) string {
	return fmt.Sprintf("%s-bastion", network)
}

// KeyObject is the object key under which the private key of keyName is backed up.
func KeyObject(keyName string) string {
	return keyName + ".pem"
}

// KeyBucket returns the backup bucket name for an account.
// Bucket names must be lowercase.
func KeyBucket(prefix, accountID string) string {
	return strings.ToLower(fmt.Sprintf("%s-%s", prefix, accountID))
}

// ConnectScript is the file name of the connect helper for a bastion host.
func ConnectScript(bastion string) string {
	return "connect_" + bastion
}
