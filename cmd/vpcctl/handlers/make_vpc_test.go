package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vpcctl/internal/provisioning"
	testutil "github.com/imamik/vpcctl/internal/testing"
	"github.com/imamik/vpcctl/internal/util/prerequisites"
)

func TestMakeVPC(t *testing.T) {
	env := newHandlerEnv(t, testutil.TwoSubnetConfig())
	env.make(t)

	inv, err := provisioning.CollectInventory(testutil.TestContext(t), env.fixture.Clients(), "test-net")
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Count(provisioning.KindNetwork))
	assert.Equal(t, 2, inv.Count(provisioning.KindSubnet))
	assert.Equal(t, 2, inv.Count(provisioning.KindInstance))

	output := env.out.String()
	assert.Contains(t, output, "test-net is ready")
	assert.Contains(t, output, "bastion-a")
	assert.Contains(t, output, "bastion-b")

	for _, name := range []string{"bastion-a", "bastion-b"} {
		path := filepath.Join(env.scriptDir, "connect_"+name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "#!/bin/sh\nssh -i ")
		assert.Contains(t, string(content), "test-net-bastion.pem")
		assert.Contains(t, string(content), "ubuntu@")
	}
}

func TestMakeVPC_SecondRunCreatesNothing(t *testing.T) {
	env := newHandlerEnv(t, testutil.TwoSubnetConfig())
	env.make(t)
	env.fixture.Cloud.ResetCalls()

	env.make(t)

	creations, deletions := env.fixture.Cloud.Mutations()
	assert.Zero(t, creations)
	assert.Zero(t, deletions)
}

func TestMakeVPC_MetricsTextfile(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())
	env.opts.MetricsTextfile = filepath.Join(t.TempDir(), "vpcctl.prom")
	env.make(t)

	data, err := os.ReadFile(env.opts.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "vpcctl_provisioning_resource_events_total")
	assert.Contains(t, string(data), `phase="compute"`)
}

func TestMakeVPC_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, env *handlerEnv) string
		wantErr string
	}{
		{
			name:    "unknown network",
			prepare: func(*testing.T, *handlerEnv) string { return "other-net" },
			wantErr: "failed to load configuration for other-net",
		},
		{
			name: "no credentials and no terminal",
			prepare: func(t *testing.T, env *handlerEnv) string {
				require.NoError(t, os.Remove(filepath.Join(env.opts.StateDir, "credentials.yaml")))
				return "test-net"
			},
			wantErr: "not a terminal",
		},
		{
			name: "invalid log format",
			prepare: func(_ *testing.T, env *handlerEnv) string {
				env.opts.LogFormat = "xml"
				return "test-net"
			},
			wantErr: "invalid log format",
		},
		{
			name: "phase failure",
			prepare: func(_ *testing.T, env *handlerEnv) string {
				env.fixture.Cloud.FailOn("CreateNetwork", errors.New("VpcLimitExceeded"))
				return "test-net"
			},
			wantErr: "make-vpc test-net failed: infrastructure phase failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newHandlerEnv(t, testutil.MinimalConfig())
			name := tt.prepare(t, env)

			err := MakeVPC(testutil.TestContext(t), env.opts, name, MakeOptions{ScriptDir: env.scriptDir})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NoFileExists(t, filepath.Join(env.scriptDir, "connect_bastion-a"))
		})
	}
}

func TestMakeVPC_SkipBootstrap(t *testing.T) {
	cfg := testutil.NewConfigBuilder().
		WithSubnet("public-a", "10.0.1.0/24", "eu-west-1a", "bastion-a").
		WithBootstrapCommands("uptime").
		Build()
	env := newHandlerEnv(t, cfg)

	orig := newBootstrapProvisioner
	defer func() { newBootstrapProvisioner = orig }()
	newBootstrapProvisioner = func() provisioning.Phase {
		t.Fatal("bootstrap must not run when skipped")
		return nil
	}

	err := MakeVPC(testutil.TestContext(t), env.opts, "test-net", MakeOptions{SkipBootstrap: true, ScriptDir: env.scriptDir})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(env.scriptDir, "connect_bastion-a"))
}

func TestMakeVPC_ChecksConnectTools(t *testing.T) {
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

	env.make(t)
	assert.Equal(t, []string{"ssh"}, checked)
}
