// Package ssh runs commands on bastion hosts over SSH.
//
// A [Client] holds one authenticated connection per host and opens a new
// session for every command. Connection establishment retries with backoff,
// because a freshly launched host accepts TCP before its SSH daemon is ready.
package ssh
