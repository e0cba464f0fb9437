package testing

import (
	"context"
	"testing"
	"time"

	"github.com/imamik/vpcctl/internal/config"
)

// TestAccountID is the account identifier fixtures use for bucket names.
const TestAccountID = "AKIATESTACCOUNT"

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// FastPollPolicy polls without pausing and gives up after a bounded number
// of refreshes, so a reconciler bug fails the test instead of hanging it.
func FastPollPolicy() *config.PollPolicy {
	return &config.PollPolicy{
		Interval:      time.Millisecond,
		MaxAttempts:   100,
		SettleDelay:   0,
		SSHRetries:    2,
		SSHRetryDelay: time.Millisecond,
	}
}
