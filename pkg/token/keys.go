package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
)

// KeyPair is an ed25519 signing keypair. The root keypair signs the authority
// block; ephemeral keypairs sign extension blocks.
type KeyPair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// NewKeyPair generates a keypair from the given randomness source. A nil rng
// falls back to crypto/rand. Tests pass a deterministic reader so token
// contents are reproducible.
func NewKeyPair(rng io.Reader) (*KeyPair, error) {
	if rng == nil {
		rng = rand.Reader
	}
	pub, priv, err := ed25519.GenerateKey(rng)
	if err != nil {
		return nil, fmt.Errorf("generating keypair: %w", err)
	}
	return &KeyPair{Private: priv, Public: pub}, nil
}
