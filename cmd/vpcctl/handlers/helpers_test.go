package handlers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imamik/vpcctl/internal/config"
	"github.com/imamik/vpcctl/internal/provisioning"
	testutil "github.com/imamik/vpcctl/internal/testing"
)

// handlerEnv wires the handlers to an in-memory cloud. Handler tests swap
// package variables and therefore do not run in parallel.
type handlerEnv struct {
	opts      *GlobalOptions
	fixture   *testutil.CloudFixture
	out       *bytes.Buffer
	scriptDir string
}

func newHandlerEnv(t *testing.T, cfg *config.NetworkConfig) *handlerEnv {
	t.Helper()

	f := testutil.NewCloudFixture(t)
	configDir := t.TempDir()
	data, err := config.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(config.Resolve(configDir, cfg.Name), data, 0o600))
	require.NoError(t, config.SaveCredentials(config.CredentialsPath(f.StateDir), config.Credentials{
		AccessKeyID:     testutil.TestAccountID,
		SecretAccessKey: "secret",
	}))

	origCloud := newCloud
	origCtx := newProvisioningContext
	origStdout := stdout
	origStderr := stderr
	origInteractive := isInteractive
	origPrompt := promptCredentials
	t.Cleanup(func() {
		newCloud = origCloud
		newProvisioningContext = origCtx
		stdout = origStdout
		stderr = origStderr
		isInteractive = origInteractive
		promptCredentials = origPrompt
	})

	out := &bytes.Buffer{}
	stdout = out
	stderr = &bytes.Buffer{}
	isInteractive = func() bool { return false }
	newCloud = func(context.Context, config.Credentials, *config.NetworkConfig) (provisioning.Cloud, error) {
		return f.Clients(), nil
	}
	newProvisioningContext = func(
		ctx context.Context,
		cfg *config.NetworkConfig,
		cloud provisioning.Cloud,
		stateDir string,
		observer provisioning.Observer,
	) *provisioning.Context {
		pCtx := provisioning.NewContext(ctx, cfg, cloud, stateDir, observer)
		pCtx.Poll = testutil.FastPollPolicy()
		return pCtx
	}

	return &handlerEnv{
		opts: &GlobalOptions{
			ConfigDir: configDir,
			StateDir:  f.StateDir,
			LogLevel:  "error",
			LogFormat: LogFormatJSON,
		},
		fixture:   f,
		out:       out,
		scriptDir: filepath.Join(t.TempDir(), "scripts"),
	}
}

func (e *handlerEnv) make(t *testing.T) {
	t.Helper()
	require.NoError(t, MakeVPC(testutil.TestContext(t), e.opts, "test-net", MakeOptions{ScriptDir: e.scriptDir}))
}

// writeConfig stores cfg under configName, which may differ from the network
// name inside it.
func (e *handlerEnv) writeConfig(t *testing.T, configName string, cfg *config.NetworkConfig) {
	t.Helper()
	data, err := config.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(config.Resolve(e.opts.ConfigDir, configName), data, 0o600))
}
