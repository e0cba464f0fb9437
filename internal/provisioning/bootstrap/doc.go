// Package bootstrap runs the configured bootstrap commands on every bastion
// after convergence.
//
// Bastions are handled in parallel. For each host the phase waits for the SSH
// port, opens one remote shell and runs the commands in order; the first
// failing command stops that host. The phase is a no-op when no commands are
// configured.
package bootstrap
