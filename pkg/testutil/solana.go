package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/instruction-server/pkg/signer"
	"github.com/code-payments/instruction-server/pkg/solana"
)

// GenerateAddresses returns n random, non-zero addresses.
func GenerateAddresses(t *testing.T, n int) []solana.Address {
	addresses := make([]solana.Address, n)
	for i := 0; i < n; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		addresses[i], err = solana.NewAddressFromBytes(pub)
		require.NoError(t, err)
	}
	return addresses
}

func NewRandomKeypair(t *testing.T) *signer.Keypair {
	keypair, err := signer.GenerateKeypair()
	require.NoError(t, err)

	return keypair
}
