package signer

import (
	"crypto/ed25519"

	"github.com/code-payments/instruction-server/pkg/solana"
)

// SignedMessage is the result of signing a message.
type SignedMessage struct {
	Message   []byte
	Signature solana.Signature
	PublicKey solana.Address
}

// Sign produces a deterministic ed25519 signature over the exact message bytes.
func Sign(message []byte, keypair *Keypair) (*SignedMessage, error) {
	if len(message) == 0 {
		return nil, solana.NewInvalidInputError("missing message")
	}
	if keypair == nil || len(keypair.privateKey) != ed25519.PrivateKeySize {
		return nil, solana.NewInvalidInputError("invalid secret")
	}

	var signature solana.Signature
	copy(signature[:], ed25519.Sign(keypair.privateKey, message))

	signed := &SignedMessage{
		Message:   make([]byte, len(message)),
		Signature: signature,
		PublicKey: keypair.PublicKey(),
	}
	copy(signed.Message, message)

	return signed, nil
}

func (k *Keypair) Sign(message []byte) (*SignedMessage, error) {
	return Sign(message, k)
}

// Verify reports whether signature is a valid signature of message by the
// given public key.
func Verify(message []byte, signature solana.Signature, publicKey solana.Address) bool {
	return ed25519.Verify(publicKey.PublicKey(), message, signature[:])
}
