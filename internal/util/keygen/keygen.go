package keygen

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// ErrEmptyKey is returned by ParsePrivateKey for blank material.
var ErrEmptyKey = errors.New("private key material is empty")

// KeyPair holds a key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the private key as a PEM-encoded OpenSSH block.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// GenerateEd25519KeyPair generates a new ed25519 key pair. comment is stored
// inside the private key block.
func GenerateEd25519KeyPair(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: pem.EncodeToMemory(block),
		PublicKey:  ssh.MarshalAuthorizedKey(sshPub),
	}, nil
}

// ParsePrivateKey parses PEM-encoded private key material into a signer.
// Passphrase-protected keys are rejected.
func ParsePrivateKey(material []byte) (ssh.Signer, error) {
	if len(bytes.TrimSpace(material)) == 0 {
		return nil, ErrEmptyKey
	}
	signer, err := ssh.ParsePrivateKey(material)
	if err != nil {
		return nil, fmt.Errorf("invalid private key material: %w", err)
	}
	return signer, nil
}

// Fingerprint returns the SHA256 fingerprint of the public half of material.
func Fingerprint(material []byte) (string, error) {
	signer, err := ParsePrivateKey(material)
	if err != nil {
		return "", err
	}
	return ssh.FingerprintSHA256(signer.PublicKey()), nil
}
