// Package keygen generates and validates SSH private key material.
//
// Keys are produced as PEM-encoded OpenSSH private keys (private) and in
// authorized_keys format (public). Material downloaded from a backup is run
// through [ParsePrivateKey] before it is written to disk.
package keygen
