// Package keys manages the bastion key pair of a network.
//
// The key pair is named "<network>-bastion". Its private key exists in three
// places: the provider (public half only), a local file in the state
// directory, and an encrypted backup object in a per-account bucket. The
// local file is the only copy the tool reads; it is restored from the backup
// when missing. If both the local file and the backup are gone while the
// remote key pair exists, the key is unrecoverable and [ErrKeyMaterialLost]
// is returned.
package keys
