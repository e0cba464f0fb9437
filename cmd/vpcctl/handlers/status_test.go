package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vpcctl/internal/provisioning"
	testutil "github.com/imamik/vpcctl/internal/testing"
)

func TestStatus_JSON(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())
	env.make(t)
	env.out.Reset()

	require.NoError(t, Status(testutil.TestContext(t), env.opts, "test-net", true))

	var inv provisioning.Inventory
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &inv))
	assert.Equal(t, "test-net", inv.Network)
	assert.NotEmpty(t, inv.NetworkID)
	assert.Equal(t, 1, inv.Count(provisioning.KindSubnet))
	assert.Equal(t, 1, inv.Count(provisioning.KindInstance))
	assert.Equal(t, 1, inv.Count(provisioning.KindAddress))
}

func TestStatus_Styled(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())
	env.make(t)
	env.out.Reset()

	require.NoError(t, Status(testutil.TestContext(t), env.opts, "test-net", false))

	output := env.out.String()
	assert.Contains(t, output, "vpcctl status: test-net")
	assert.Contains(t, output, "subnet (1)")
	assert.Contains(t, output, "public-a")
	assert.Contains(t, output, "test-net-bastion")
}

func TestStatus_MissingNetwork(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())

	require.NoError(t, Status(testutil.TestContext(t), env.opts, "test-net", false))
	assert.Contains(t, env.out.String(), "network does not exist")

	creations, _ := env.fixture.Cloud.Mutations()
	assert.Zero(t, creations)
}
