package token

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/instruction-server/pkg/solana"
	"github.com/code-payments/instruction-server/pkg/solana/system"
)

func TestProgramKey(t *testing.T) {
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", ProgramKey.ToBase58())
}

func TestGetCommand_Error(t *testing.T) {
	keys := generateKeys(t, 1)

	// invalid program
	cmd, err := GetCommand(solana.NewInstruction(keys[0], []byte{}))
	assert.Equal(t, CommandUnknown, cmd)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	// no data
	cmd, err = GetCommand(solana.NewInstruction(ProgramKey, []byte{}))
	assert.Equal(t, CommandUnknown, cmd)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "missing data")
}

func TestInitializeMint(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := InitializeMint(keys[0], keys[1], &keys[2], 9)

	assert.Equal(t, ProgramKey, instruction.Program)
	require.Len(t, instruction.Data, 67)
	assert.EqualValues(t, CommandInitializeMint, instruction.Data[0])
	assert.EqualValues(t, 9, instruction.Data[1])
	assert.Equal(t, keys[1][:], instruction.Data[2:34])
	assert.EqualValues(t, 1, instruction.Data[34])
	assert.Equal(t, keys[2][:], instruction.Data[35:67])

	require.Len(t, instruction.Accounts, 2)
	assert.Equal(t, solana.AccountMeta{PublicKey: keys[0], IsSigner: false, IsWritable: true}, instruction.Accounts[0])
	assert.Equal(t, solana.AccountMeta{PublicKey: system.RentSysVar, IsSigner: false, IsWritable: false}, instruction.Accounts[1])

	decompiled, err := DecompileInitializeMint(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Mint)
	assert.Equal(t, keys[1], decompiled.MintAuthority)
	require.NotNil(t, decompiled.FreezeAuthority)
	assert.Equal(t, keys[2], *decompiled.FreezeAuthority)
	assert.EqualValues(t, 9, decompiled.Decimals)

	cmd, err := GetCommand(instruction)
	require.NoError(t, err)
	assert.Equal(t, CommandInitializeMint, cmd)

	instruction.Accounts[1].PublicKey = keys[2]
	_, err = DecompileInitializeMint(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid rent program"))

	instruction.Accounts = instruction.Accounts[:1]
	_, err = DecompileInitializeMint(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid number of accounts"))

	instruction.Data[0] = byte(CommandTransfer)
	_, err = DecompileInitializeMint(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[2]
	_, err = DecompileInitializeMint(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestInitializeMint_NoFreezeAuthority(t *testing.T) {
	keys := generateKeys(t, 2)

	for _, decimals := range []byte{0, 6, 9, 255} {
		instruction := InitializeMint(keys[0], keys[1], nil, decimals)

		require.Len(t, instruction.Data, 35)
		assert.EqualValues(t, decimals, instruction.Data[1])
		assert.EqualValues(t, 0, instruction.Data[34])

		decompiled, err := DecompileInitializeMint(instruction)
		require.NoError(t, err)
		assert.Equal(t, keys[0], decompiled.Mint)
		assert.Equal(t, keys[1], decompiled.MintAuthority)
		assert.Nil(t, decompiled.FreezeAuthority)
		assert.Equal(t, decimals, decompiled.Decimals)

		instruction.Data = append(instruction.Data, 0)
		_, err = DecompileInitializeMint(instruction)
		assert.NotNil(t, err)
		assert.True(t, strings.Contains(err.Error(), "invalid instruction data size"))
	}
}

func TestTransferBytes(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := Transfer(keys[0], keys[1], keys[2], 1000)
	assert.Equal(t, []byte{3, 0xe8, 0x03, 0, 0, 0, 0, 0, 0}, instruction.Data)
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := Transfer(keys[0], keys[1], keys[2], 123456789)

	expectedAmount := make([]byte, 8)
	binary.LittleEndian.PutUint64(expectedAmount, 123456789)

	assert.EqualValues(t, 3, instruction.Data[0])
	assert.EqualValues(t, expectedAmount, instruction.Data[1:])

	assert.Equal(t, keys[0], instruction.Accounts[0].PublicKey)
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.Equal(t, keys[1], instruction.Accounts[1].PublicKey)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)

	assert.Equal(t, keys[2], instruction.Accounts[2].PublicKey)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)

	decompiled, err := DecompileTransfer(instruction)
	assert.NoError(t, err)
	assert.EqualValues(t, 123456789, decompiled.Amount)
	assert.Equal(t, keys[0], decompiled.Source)
	assert.Equal(t, keys[1], decompiled.Destination)
	assert.Equal(t, keys[2], decompiled.Owner)

	cmd, err := GetCommand(instruction)
	require.NoError(t, err)
	assert.Equal(t, CommandTransfer, cmd)

	_, err = DecompileMintTo(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = instruction.Data[:1]
	_, err = DecompileTransfer(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid instruction data size"))

	instruction.Accounts = instruction.Accounts[:2]
	_, err = DecompileTransfer(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid number of accounts"))

	instruction.Data[0] = byte(CommandApprove)
	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = nil
	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[3]
	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestMintTo(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := MintTo(keys[0], keys[1], keys[2], 1_000_000_000)

	expectedAmount := make([]byte, 8)
	binary.LittleEndian.PutUint64(expectedAmount, 1_000_000_000)

	assert.Equal(t, ProgramKey, instruction.Program)
	assert.EqualValues(t, 7, instruction.Data[0])
	assert.EqualValues(t, expectedAmount, instruction.Data[1:])

	require.Len(t, instruction.Accounts, 3)
	assert.Equal(t, solana.AccountMeta{PublicKey: keys[0], IsSigner: false, IsWritable: true}, instruction.Accounts[0])
	assert.Equal(t, solana.AccountMeta{PublicKey: keys[1], IsSigner: false, IsWritable: true}, instruction.Accounts[1])
	assert.Equal(t, solana.AccountMeta{PublicKey: keys[2], IsSigner: true, IsWritable: false}, instruction.Accounts[2])

	decompiled, err := DecompileMintTo(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Mint)
	assert.Equal(t, keys[1], decompiled.Destination)
	assert.Equal(t, keys[2], decompiled.Authority)
	assert.EqualValues(t, 1_000_000_000, decompiled.Amount)

	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[3]
	_, err = DecompileMintTo(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func generateKeys(t *testing.T, amount int) []solana.Address {
	keys := make([]solana.Address, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		keys[i], err = solana.NewAddressFromBytes(pub)
		require.NoError(t, err)
	}

	return keys
}
