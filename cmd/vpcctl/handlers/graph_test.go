package handlers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/vpcctl/internal/testing"
	"github.com/imamik/vpcctl/internal/util/prerequisites"
)

func TestGraph(t *testing.T) {
	env := newHandlerEnv(t, testutil.TwoSubnetConfig())

	require.NoError(t, Graph(env.opts, "test-net", "dot", true))
	assert.Contains(t, env.out.String(), "digraph")
	assert.Contains(t, env.out.String(), "subnet: public-b 10.0.2.0/24")

	assert.Zero(t, env.fixture.Cloud.Calls("GetNetworks"), "graph needs no cloud access")
}

func TestGraph_InvalidFormat(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())

	err := Graph(env.opts, "test-net", "png", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown graph format")
	assert.Empty(t, env.out.String())
}

func TestGraph_WarnsWithoutDot(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())

	orig := checkTools
	defer func() { checkTools = orig }()
	var checked []string
	checkTools = func(tools []prerequisites.Tool) *prerequisites.CheckResults {
		for _, tool := range tools {
			checked = append(checked, tool.Name)
		}
		return &prerequisites.CheckResults{Missing: tools}
	}
	warnings := &bytes.Buffer{}
	stderr = warnings

	require.NoError(t, Graph(env.opts, "test-net", "mermaid", false))
	assert.Empty(t, checked, "mermaid output needs no local tools")

	require.NoError(t, Graph(env.opts, "test-net", "dot", false))
	assert.Equal(t, []string{"dot"}, checked)
	assert.Contains(t, warnings.String(), "Warning: ")
}
