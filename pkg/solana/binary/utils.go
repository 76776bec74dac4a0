package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/instruction-server/pkg/solana"
)

const (
	KeySize    = ed25519.PublicKeySize
	OptionSize = 1
)

func PutKey32(dst []byte, src solana.Address, offset *int) {
	copy(dst, src[:])
	*offset += KeySize
}

// PutPackedOptionalKey32 writes a COption<Pubkey> the way the token program
// packs instruction arguments: a single flag byte, followed by the key only
// when it is present.
func PutPackedOptionalKey32(dst []byte, src *solana.Address, offset *int) {
	if src == nil {
		dst[0] = 0
		*offset += OptionSize
		return
	}

	dst[0] = 1
	copy(dst[OptionSize:], src[:])
	*offset += OptionSize + KeySize
}

// PackedOptionalKey32Size is the encoded size of PutPackedOptionalKey32.
func PackedOptionalKey32Size(src *solana.Address) int {
	if src == nil {
		return OptionSize
	}
	return OptionSize + KeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst, v)
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

func GetKey32(src []byte, dst *solana.Address, offset *int) {
	copy(dst[:], src)
	*offset += KeySize
}

// GetPackedOptionalKey32 is the inverse of PutPackedOptionalKey32.
func GetPackedOptionalKey32(src []byte, dst **solana.Address, offset *int) {
	if src[0] != 1 {
		*dst = nil
		*offset += OptionSize
		return
	}

	var key solana.Address
	copy(key[:], src[OptionSize:])
	*dst = &key
	*offset += OptionSize + KeySize
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src)
	*offset += 4
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[0]
	*offset += 1
}
