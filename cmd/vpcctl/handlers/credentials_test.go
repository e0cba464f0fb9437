package handlers

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vpcctl/internal/config"
	testutil "github.com/imamik/vpcctl/internal/testing"
)

func TestCheckCredentials_Existing(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())
	promptCredentials = func(context.Context) (config.Credentials, error) {
		t.Fatal("must not prompt when the file exists")
		return config.Credentials{}, nil
	}

	require.NoError(t, CheckCredentials(testutil.TestContext(t), env.opts))
	assert.Contains(t, env.out.String(), "AKIA*********** found in")
}

func TestCheckCredentials_Prompts(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())
	path := config.CredentialsPath(env.opts.StateDir)
	require.NoError(t, os.Remove(path))

	isInteractive = func() bool { return true }
	promptCredentials = func(context.Context) (config.Credentials, error) {
		return config.Credentials{AccessKeyID: "AKIANEW", SecretAccessKey: "s3cret"}, nil
	}

	require.NoError(t, CheckCredentials(testutil.TestContext(t), env.opts))
	assert.Contains(t, env.out.String(), "AKIA*** saved to")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	creds, err := config.LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "AKIANEW", creds.AccessKeyID)
}

func TestCheckCredentials_PromptAborted(t *testing.T) {
	env := newHandlerEnv(t, testutil.MinimalConfig())
	path := config.CredentialsPath(env.opts.StateDir)
	require.NoError(t, os.Remove(path))

	isInteractive = func() bool { return true }
	promptCredentials = func(context.Context) (config.Credentials, error) {
		return config.Credentials{}, errors.New("user aborted")
	}

	err := CheckCredentials(testutil.TestContext(t), env.opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user aborted")
	assert.NoFileExists(t, path)
}

func TestMaskKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"AKI", "***"},
		{"AKIAXYZ", "AKIA***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskKey(tt.in))
	}
}
