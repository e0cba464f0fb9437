package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vpcctl/internal/provisioning"
	testutil "github.com/imamik/vpcctl/internal/testing"
)

func TestDeleteVPC(t *testing.T) {
	env := newHandlerEnv(t, testutil.TwoSubnetConfig())
	env.make(t)

	require.NoError(t, DeleteVPC(testutil.TestContext(t), env.opts, "test-net"))

	inv, err := provisioning.CollectInventory(testutil.TestContext(t), env.fixture.Clients(), "test-net")
	require.NoError(t, err)
	assert.False(t, inv.Exists())
	assert.Contains(t, env.out.String(), "test-net deleted")
}

func TestDeleteVPC_NothingToDelete(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())

	require.NoError(t, DeleteVPC(testutil.TestContext(t), env.opts, "test-net"))

	_, deletions := env.fixture.Cloud.Mutations()
	assert.Zero(t, deletions)
}
