package token

import (
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/instruction-server/pkg/solana"
	"github.com/code-payments/instruction-server/pkg/solana/binary"
	"github.com/code-payments/instruction-server/pkg/solana/system"
)

// ProgramKey is the address of the token program that should be used.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = solana.Address{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

type Command byte

const (
	CommandInitializeMint Command = iota
	// nolint:varcheck,deadcode,unused
	CommandInitializeAccount
	// nolint:varcheck,deadcode,unused
	CommandInitializeMultisig
	CommandTransfer
	// nolint:varcheck,deadcode,unused
	CommandApprove
	// nolint:varcheck,deadcode,unused
	CommandRevoke
	// nolint:varcheck,deadcode,unused
	CommandSetAuthority
	CommandMintTo

	CommandUnknown = Command(math.MaxUint8)
)

const amountDataSize = 1 + 8

// GetCommand returns the command of a token program instruction.
func GetCommand(i solana.Instruction) (Command, error) {
	if i.Program != ProgramKey {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 {
		return CommandUnknown, errors.New("token instruction missing data")
	}

	return Command(i.Data[0]), nil
}

// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L27-L40
func InitializeMint(mint, mintAuthority solana.Address, freezeAuthority *solana.Address, decimals byte) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The mint to initialize.
	//   1. `[]` Rent sysvar
	//
	// InitializeMint {
	//   decimals: u8,
	//   mint_authority: Pubkey,
	//   freeze_authority: COption<Pubkey>,
	// }
	data := make([]byte, 1+1+binary.KeySize+binary.PackedOptionalKey32Size(freezeAuthority))

	var offset int
	binary.PutUint8(data[offset:], byte(CommandInitializeMint), &offset)
	binary.PutUint8(data[offset:], decimals, &offset)
	binary.PutKey32(data[offset:], mintAuthority, &offset)
	binary.PutPackedOptionalKey32(data[offset:], freezeAuthority, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

type DecompiledInitializeMint struct {
	Mint            solana.Address
	MintAuthority   solana.Address
	FreezeAuthority *solana.Address
	Decimals        byte
}

func DecompileInitializeMint(i solana.Instruction) (*DecompiledInitializeMint, error) {
	if i.Program != ProgramKey {
		return nil, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 || i.Data[0] != byte(CommandInitializeMint) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if i.Accounts[1].PublicKey != system.RentSysVar {
		return nil, errors.New("invalid rent program")
	}

	minSize := 1 + 1 + binary.KeySize + binary.OptionSize
	if len(i.Data) != minSize && len(i.Data) != minSize+binary.KeySize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledInitializeMint{
		Mint: i.Accounts[0].PublicKey,
	}

	offset := 1
	binary.GetUint8(i.Data[offset:], &v.Decimals, &offset)
	binary.GetKey32(i.Data[offset:], &v.MintAuthority, &offset)
	binary.GetPackedOptionalKey32(i.Data[offset:], &v.FreezeAuthority, &offset)
	if offset != len(i.Data) {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return v, nil
}

// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L76-L91
func Transfer(source, dest, owner solana.Address, amount uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner/delegate
	//   0. `[writable]` The source account.
	//   1. `[writable]` The destination account.
	//   2. `[signer]` The source account's owner/delegate.
	return amountInstruction(
		CommandTransfer,
		amount,
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledTransfer struct {
	Source      solana.Address
	Destination solana.Address
	Owner       solana.Address
	Amount      uint64
}

func DecompileTransfer(i solana.Instruction) (*DecompiledTransfer, error) {
	amount, err := decompileAmountInstruction(i, CommandTransfer)
	if err != nil {
		return nil, err
	}

	return &DecompiledTransfer{
		Source:      i.Accounts[0].PublicKey,
		Destination: i.Accounts[1].PublicKey,
		Owner:       i.Accounts[2].PublicKey,
		Amount:      amount,
	}, nil
}

// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L130-L145
func MintTo(mint, dest, authority solana.Address, amount uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single authority
	//   0. `[writable]` The mint.
	//   1. `[writable]` The account to mint tokens to.
	//   2. `[signer]` The mint's minting authority.
	return amountInstruction(
		CommandMintTo,
		amount,
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

type DecompiledMintTo struct {
	Mint        solana.Address
	Destination solana.Address
	Authority   solana.Address
	Amount      uint64
}

func DecompileMintTo(i solana.Instruction) (*DecompiledMintTo, error) {
	amount, err := decompileAmountInstruction(i, CommandMintTo)
	if err != nil {
		return nil, err
	}

	return &DecompiledMintTo{
		Mint:        i.Accounts[0].PublicKey,
		Destination: i.Accounts[1].PublicKey,
		Authority:   i.Accounts[2].PublicKey,
		Amount:      amount,
	}, nil
}

func amountInstruction(command Command, amount uint64, accounts ...solana.AccountMeta) solana.Instruction {
	data := make([]byte, amountDataSize)

	var offset int
	binary.PutUint8(data[offset:], byte(command), &offset)
	binary.PutUint64(data[offset:], amount, &offset)

	return solana.NewInstruction(ProgramKey, data, accounts...)
}

func decompileAmountInstruction(i solana.Instruction, command Command) (uint64, error) {
	actual, err := GetCommand(i)
	if err == solana.ErrIncorrectProgram {
		return 0, err
	} else if err != nil || actual != command {
		return 0, solana.ErrIncorrectInstruction
	}

	if len(i.Accounts) != 3 {
		return 0, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != amountDataSize {
		return 0, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	var amount uint64
	offset := 1
	binary.GetUint64(i.Data[offset:], &amount, &offset)
	return amount, nil
}
