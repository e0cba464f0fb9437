package config

import (
	"os"
	"strconv"
	"time"
)

// PollPolicy controls how long the reconcilers wait on asynchronous remote state.
type PollPolicy struct {
	Interval      time.Duration // Pause between state refreshes
	MaxAttempts   int           // Refreshes before giving up; 0 polls until cancelled
	SettleDelay   time.Duration // Pause after stripping security group rules when several groups exist
	SSHRetries    int           // Connection attempts to a bastion's remote shell
	SSHRetryDelay time.Duration // Initial delay between connection attempts
}

// LoadPollPolicy loads the polling policy from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - VPCCTL_POLL_INTERVAL (default: 5s)
//   - VPCCTL_POLL_MAX_ATTEMPTS (default: 0, unbounded)
//   - VPCCTL_SG_SETTLE_DELAY (default: 5s)
//   - VPCCTL_SSH_RETRIES (default: 10)
//   - VPCCTL_SSH_RETRY_DELAY (default: 2s)
func LoadPollPolicy() *PollPolicy {
	return &PollPolicy{
		Interval:      parseDuration("VPCCTL_POLL_INTERVAL", 5*time.Second),
		MaxAttempts:   parseInt("VPCCTL_POLL_MAX_ATTEMPTS", 0),
		SettleDelay:   parseDuration("VPCCTL_SG_SETTLE_DELAY", 5*time.Second),
		SSHRetries:    parseInt("VPCCTL_SSH_RETRIES", 10),
		SSHRetryDelay: parseDuration("VPCCTL_SSH_RETRY_DELAY", 2*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
