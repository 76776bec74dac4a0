package solana

import (
	"crypto/ed25519"
	"encoding/base64"

	"github.com/mr-tron/base58"
)

type Signature [ed25519.SignatureSize]byte

// NewSignatureFromBase64 decodes a standard (padded) base64 signature.
func NewSignatureFromBase64(value string) (Signature, error) {
	var sig Signature

	if len(value) == 0 {
		return sig, NewInvalidInputError("signature is empty")
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return sig, WrapInvalidInput(err, "signature is not valid base64")
	}
	if len(decoded) != len(sig) {
		return sig, NewInvalidInputErrorf("signature must be %d bytes, got %d", len(sig), len(decoded))
	}

	copy(sig[:], decoded)
	return sig, nil
}

func (s Signature) ToBase64() string {
	return base64.StdEncoding.EncodeToString(s[:])
}

func (s Signature) ToBase58() string {
	return base58.Encode(s[:])
}
