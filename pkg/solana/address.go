package solana

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// Address is the 32 byte identifier of an account or program.
type Address [ed25519.PublicKeySize]byte

// NewAddressFromString decodes a base58 encoded address.
//
// The text must decode to exactly 32 bytes. Shorter or longer values are
// rejected rather than padded or truncated.
func NewAddressFromString(value string) (Address, error) {
	var address Address

	if len(value) == 0 {
		return address, NewInvalidInputError("address is empty")
	}

	decoded, err := base58.Decode(value)
	if err != nil {
		return address, WrapInvalidInput(err, "address is not valid base58")
	}
	if len(decoded) != len(address) {
		return address, NewInvalidInputErrorf("address must be %d bytes, got %d", len(address), len(decoded))
	}

	copy(address[:], decoded)
	if address.ToBase58() != value {
		return address, NewInvalidInputError("address is not canonically encoded")
	}

	return address, nil
}

// NewAddressFromBytes copies a 32 byte value into an Address.
func NewAddressFromBytes(value []byte) (Address, error) {
	var address Address
	if len(value) != len(address) {
		return address, NewInvalidInputErrorf("address must be %d bytes, got %d", len(address), len(value))
	}

	copy(address[:], value)
	return address, nil
}

// MustAddressFromString is NewAddressFromString for well known constants.
// It panics on invalid input and must not be used with external values.
func MustAddressFromString(value string) Address {
	address, err := NewAddressFromString(value)
	if err != nil {
		panic(err)
	}
	return address
}

func (a Address) ToBase58() string {
	return base58.Encode(a[:])
}

func (a Address) String() string {
	return a.ToBase58()
}

// ToBytes returns a copy of the underlying bytes.
func (a Address) ToBytes() []byte {
	b := make([]byte, len(a))
	copy(b, a[:])
	return b
}

// PublicKey returns the address as an ed25519 public key.
func (a Address) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(a.ToBytes())
}

// IsZero reports whether the address is the all zero default value, which is
// also the address of the native program.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.ToBase58()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	address, err := NewAddressFromString(string(text))
	if err != nil {
		return err
	}

	*a = address
	return nil
}
