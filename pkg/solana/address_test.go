package solana

import (
	"crypto/rand"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_KnownValues(t *testing.T) {
	tokenProgram := Address{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

	for _, tc := range []struct {
		text     string
		expected Address
	}{
		{"11111111111111111111111111111111", Address{}},
		{"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", tokenProgram},
	} {
		actual, err := NewAddressFromString(tc.text)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, actual)
		assert.Equal(t, tc.text, actual.ToBase58())
		assert.Equal(t, tc.text, actual.String())
	}

	assert.True(t, Address{}.IsZero())
	assert.False(t, tokenProgram.IsZero())
}

func TestAddress_RoundTrip(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var expected Address
		_, err := rand.Read(expected[:])
		require.NoError(t, err)

		text := expected.ToBase58()

		actual, err := NewAddressFromString(text)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		assert.Equal(t, text, actual.ToBase58())

		fromBytes, err := NewAddressFromBytes(expected[:])
		require.NoError(t, err)
		assert.Equal(t, expected, fromBytes)
	}
}

func TestAddress_Invalid(t *testing.T) {
	valid := "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	for _, tc := range []string{
		"",
		" ",
		"invalid-key",
		strings.Repeat("0", 32),
		"O" + valid[1:],
		"I" + valid[1:],
		"l" + valid[1:],
		valid + " ",
		"ѐ" + valid,
		base58.Encode(make([]byte, 31)),
		base58.Encode(make([]byte, 33)),
		base58.Encode(make([]byte, 64)),
		valid[:len(valid)-1],
	} {
		_, err := NewAddressFromString(tc)
		require.Error(t, err, tc)
		assert.True(t, IsInvalidInput(err), tc)
	}

	for _, size := range []int{0, 1, 31, 33, 64} {
		_, err := NewAddressFromBytes(make([]byte, size))
		require.Error(t, err)
		assert.True(t, IsInvalidInput(err))
	}
}

func TestAddress_Text(t *testing.T) {
	var expected Address
	_, err := rand.Read(expected[:])
	require.NoError(t, err)

	marshalled, err := json.Marshal(map[string]Address{"pubkey": expected})
	require.NoError(t, err)
	assert.Equal(t, `{"pubkey":"`+expected.ToBase58()+`"}`, string(marshalled))

	var actual map[string]Address
	require.NoError(t, json.Unmarshal(marshalled, &actual))
	assert.Equal(t, expected, actual["pubkey"])

	err = json.Unmarshal([]byte(`{"pubkey":"abc"}`), &actual)
	assert.Error(t, err)
}

func TestAddress_ToBytesIsCopy(t *testing.T) {
	address := MustAddressFromString("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	b := address.ToBytes()
	b[0] = 0
	assert.EqualValues(t, 6, address[0])
	assert.EqualValues(t, address[:], address.PublicKey())

	assert.Panics(t, func() { MustAddressFromString("invalid") })
}
