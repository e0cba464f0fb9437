package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	t.Parallel()
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "vpcctl", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
}

func TestRoot_HasSubcommands(t *testing.T) {
	t.Parallel()
	cmd := Root()

	expected := []string{"make-vpc", "delete-vpc", "check-credentials", "status", "graph", "version"}
	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, subcommands[name], "Expected subcommand %s not found", name)
	}
	assert.Len(t, cmd.Commands(), len(expected))
}

func TestRoot_PersistentFlags(t *testing.T) {
	t.Parallel()
	cmd := Root()

	tests := []struct {
		flag     string
		defValue string
	}{
		{"config-dir", "config/vpc"},
		{"state-dir", ".vpcctl"},
		{"log-level", "info"},
		{"log-format", "console"},
		{"metrics-textfile", ""},
	}
	for _, tt := range tests {
		flag := cmd.PersistentFlags().Lookup(tt.flag)
		require.NotNil(t, flag, "flag %s should exist", tt.flag)
		assert.Equal(t, tt.defValue, flag.DefValue, tt.flag)
	}
}

func TestRoot_UnderscoreAliases(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"make_vpc"}, "make-vpc"},
		{[]string{"delete_vpc"}, "delete-vpc"},
		{[]string{"check_credentials"}, "check-credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			t.Parallel()
			sub, _, err := Root().Find(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sub.Name())
		})
	}
}

func TestNetworkName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "midkemia", networkName(nil))
	assert.Equal(t, "test-net", networkName([]string{"test-net"}))
}

func TestMakeVPC_Flags(t *testing.T) {
	t.Parallel()
	cmd := Root()
	sub, _, err := cmd.Find([]string{"make-vpc"})
	require.NoError(t, err)

	skip := sub.Flags().Lookup("skip-bootstrap")
	require.NotNil(t, skip)
	assert.Equal(t, "false", skip.DefValue)

	dir := sub.Flags().Lookup("script-dir")
	require.NotNil(t, dir)
	assert.Equal(t, ".", dir.DefValue)
}

func TestMakeVPC_TooManyArgs(t *testing.T) {
	t.Parallel()
	cmd := Root()
	cmd.SetArgs([]string{"make-vpc", "a", "b"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg")
}

func TestStatusAndGraph_Flags(t *testing.T) {
	t.Parallel()
	cmd := Root()

	status, _, err := cmd.Find([]string{"status"})
	require.NoError(t, err)
	require.NotNil(t, status.Flags().Lookup("json"))

	graph, _, err := cmd.Find([]string{"graph"})
	require.NoError(t, err)
	format := graph.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "dot", format.DefValue)
	require.NotNil(t, graph.Flags().Lookup("cluster"))
}

func TestVersion(t *testing.T) {
	t.Parallel()
	cmd := Version()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "vpcctl dev")
	assert.Contains(t, out.String(), "commit: none")
}
