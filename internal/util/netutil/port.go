// Package netutil provides network reachability checks.
package netutil

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/imamik/vpcctl/internal/util/retry"
)

// SSHPort is the TCP port of the remote shell on bastion hosts.
const SSHPort = 22

const dialTimeout = 2 * time.Second

// WaitForPort waits for a TCP port to accept connections on host.
// The port is probed immediately and then once per interval; a maxAttempts of
// zero or less probes until ctx is cancelled.
func WaitForPort(ctx context.Context, host string, port int, interval time.Duration, maxAttempts int) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := net.Dialer{Timeout: dialTimeout}

	err := retry.Poll(ctx, interval, maxAttempts, func() (bool, error) {
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			return false, nil
		}
		_ = conn.Close()
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", address, err)
	}
	return nil
}
