package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadPollPolicy_Defaults(t *testing.T) {
	for _, env := range []string{"VPCCTL_POLL_INTERVAL", "VPCCTL_POLL_MAX_ATTEMPTS", "VPCCTL_SG_SETTLE_DELAY", "VPCCTL_SSH_RETRIES", "VPCCTL_SSH_RETRY_DELAY"} {
		t.Setenv(env, "")
	}

	p := LoadPollPolicy()
	assert.Equal(t, 5*time.Second, p.Interval)
	assert.Equal(t, 0, p.MaxAttempts)
	assert.Equal(t, 5*time.Second, p.SettleDelay)
	assert.Equal(t, 10, p.SSHRetries)
	assert.Equal(t, 2*time.Second, p.SSHRetryDelay)
}

func TestLoadPollPolicy_FromEnv(t *testing.T) {
	t.Setenv("VPCCTL_POLL_INTERVAL", "250ms")
	t.Setenv("VPCCTL_POLL_MAX_ATTEMPTS", "12")
	t.Setenv("VPCCTL_SG_SETTLE_DELAY", "0s")

	p := LoadPollPolicy()
	assert.Equal(t, 250*time.Millisecond, p.Interval)
	assert.Equal(t, 12, p.MaxAttempts)
	assert.Equal(t, time.Duration(0), p.SettleDelay)
}

func TestLoadPollPolicy_InvalidFallsBack(t *testing.T) {
	t.Setenv("VPCCTL_POLL_INTERVAL", "soon")
	t.Setenv("VPCCTL_POLL_MAX_ATTEMPTS", "many")
	t.Setenv("VPCCTL_SG_SETTLE_DELAY", "-1s")

	p := LoadPollPolicy()
	assert.Equal(t, 5*time.Second, p.Interval)
	assert.Equal(t, 0, p.MaxAttempts)
	assert.Equal(t, 5*time.Second, p.SettleDelay)
}
