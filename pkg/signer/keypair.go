package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/mr-tron/base58"

	"github.com/code-payments/instruction-server/pkg/solana"
)

const (
	SeedSize   = ed25519.SeedSize
	SecretSize = ed25519.PrivateKeySize
)

// Keypair is an ed25519 signing key together with its verifying key.
//
// The verifying key is always derived from the seed. A Keypair is never
// partially constructed.
type Keypair struct {
	privateKey ed25519.PrivateKey
	publicKey  solana.Address
}

// GenerateKeypair creates a keypair from the process wide secure random source.
func GenerateKeypair() (*Keypair, error) {
	return generateKeypair(rand.Reader)
}

func generateKeypair(entropy io.Reader) (*Keypair, error) {
	seed := make([]byte, SeedSize)
	defer wipe(seed)

	if _, err := io.ReadFull(entropy, seed); err != nil {
		return nil, solana.NewInternalError(err, "error reading random seed")
	}

	return newKeypairFromSeed(seed), nil
}

// NewKeypairFromSecret builds a keypair from either a 32 byte seed or a 64 byte
// seed||public key secret. For the latter, the trailing public key must match
// the one derived from the seed.
//
// The keypair holds its own copy of the secret, so the caller may wipe the input.
func NewKeypairFromSecret(secret []byte) (*Keypair, error) {
	switch len(secret) {
	case SeedSize:
		return newKeypairFromSeed(secret), nil
	case SecretSize:
		keypair := newKeypairFromSeed(secret[:SeedSize])
		if subtle.ConstantTimeCompare(keypair.publicKey[:], secret[SeedSize:]) != 1 {
			keypair.Wipe()
			return nil, solana.NewInvalidInputError("secret key does not match its public key")
		}
		return keypair, nil
	default:
		return nil, solana.NewInvalidInputError("invalid secret")
	}
}

// NewKeypairFromBase58 decodes a base58 secret and builds a keypair from it.
func NewKeypairFromBase58(secret string) (*Keypair, error) {
	if len(secret) == 0 {
		return nil, solana.NewInvalidInputError("invalid secret")
	}

	decoded, err := base58.Decode(secret)
	if err != nil {
		return nil, solana.NewInvalidInputError("invalid secret")
	}
	defer wipe(decoded)

	return NewKeypairFromSecret(decoded)
}

// DeriveVerifyingKey returns the public key for a 32 or 64 byte secret.
func DeriveVerifyingKey(secret []byte) (solana.Address, error) {
	keypair, err := NewKeypairFromSecret(secret)
	if err != nil {
		return solana.Address{}, err
	}
	defer keypair.Wipe()

	return keypair.PublicKey(), nil
}

func newKeypairFromSeed(seed []byte) *Keypair {
	privateKey := ed25519.NewKeyFromSeed(seed)

	var publicKey solana.Address
	copy(publicKey[:], privateKey[SeedSize:])

	return &Keypair{
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

func (k *Keypair) PublicKey() solana.Address {
	return k.publicKey
}

// SecretToBase58 encodes the 64 byte seed||public key secret.
func (k *Keypair) SecretToBase58() string {
	return base58.Encode(k.privateKey)
}

// Wipe zeroes the secret. The keypair can no longer sign afterwards.
func (k *Keypair) Wipe() {
	if k == nil {
		return
	}

	wipe(k.privateKey)
	k.privateKey = nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
