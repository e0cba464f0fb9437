package provisioning_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestLifecycle runs converge and teardown end to end against the in-memory
// region.
func TestLifecycle(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Network Lifecycle Suite")
}
