package instruction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/instruction-server/pkg/pointer"
	"github.com/code-payments/instruction-server/pkg/solana"
	"github.com/code-payments/instruction-server/pkg/solana/system"
	"github.com/code-payments/instruction-server/pkg/solana/token"
	"github.com/code-payments/instruction-server/pkg/testutil"
)

const zeroAddress = "11111111111111111111111111111111"

func TestBuild_InitializeMint(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 3)

	built, err := Build(KindInitializeMint, Params{
		Mint:            keys[0].ToBase58(),
		MintAuthority:   keys[1].ToBase58(),
		FreezeAuthority: keys[2].ToBase58(),
		Decimals:        pointer.Int64(6),
	})
	require.NoError(t, err)
	assert.Equal(t, token.InitializeMint(keys[0], keys[1], &keys[2], 6), *built)

	decompiled, err := token.DecompileInitializeMint(*built)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Mint)
	assert.Equal(t, keys[1], decompiled.MintAuthority)
	require.NotNil(t, decompiled.FreezeAuthority)
	assert.Equal(t, keys[2], *decompiled.FreezeAuthority)
	assert.EqualValues(t, 6, decompiled.Decimals)

	built, err = Build(KindInitializeMint, Params{
		Mint:          keys[0].ToBase58(),
		MintAuthority: keys[1].ToBase58(),
		Decimals:      pointer.Int64(0),
	})
	require.NoError(t, err)
	assert.Len(t, built.Data, 35)
}

func TestBuild_InitializeMint_Decimals(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 2)

	params := Params{
		Mint:          keys[0].ToBase58(),
		MintAuthority: keys[1].ToBase58(),
	}

	_, err := Build(KindInitializeMint, params)
	require.Error(t, err)
	assert.True(t, solana.IsInvalidInput(err))

	for _, decimals := range []int64{-1, 256, 1 << 40} {
		params.Decimals = pointer.Int64(decimals)
		_, err = Build(KindInitializeMint, params)
		require.Error(t, err)
		assert.True(t, solana.IsInvalidInput(err))
	}

	params.Decimals = pointer.Int64(255)
	built, err := Build(KindInitializeMint, params)
	require.NoError(t, err)
	assert.EqualValues(t, 255, built.Data[1])
}

func TestBuild_InitializeMint_ZeroAddressAllowed(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 1)

	_, err := Build(KindInitializeMint, Params{
		Mint:          zeroAddress,
		MintAuthority: keys[0].ToBase58(),
		Decimals:      pointer.Int64(9),
	})
	assert.NoError(t, err)
}

func TestBuild_InitializeMint_InvalidFreezeAuthority(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 2)

	_, err := Build(KindInitializeMint, Params{
		Mint:            keys[0].ToBase58(),
		MintAuthority:   keys[1].ToBase58(),
		FreezeAuthority: "not-an-address",
		Decimals:        pointer.Int64(9),
	})
	require.Error(t, err)
	assert.True(t, solana.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "invalid freeze authority")
}

func TestBuild_TransferNative(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 2)

	built, err := Build(KindTransferNative, Params{
		From:   keys[0].ToBase58(),
		To:     keys[1].ToBase58(),
		Amount: pointer.Uint64(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, system.ProgramKey, built.Program)
	assert.Equal(t, []byte{2, 0, 0, 0, 0xe8, 0x03, 0, 0, 0, 0, 0, 0}, built.Data)

	decompiled, err := system.DecompileTransfer(*built)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.From)
	assert.Equal(t, keys[1], decompiled.To)
	assert.EqualValues(t, 1000, decompiled.Lamports)
}

func TestBuild_TransferToken(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 3)

	built, err := Build(KindTransferToken, Params{
		Source:      keys[0].ToBase58(),
		Destination: keys[1].ToBase58(),
		Owner:       keys[2].ToBase58(),
		Amount:      pointer.Uint64(0),
	})
	require.NoError(t, err)

	decompiled, err := token.DecompileTransfer(*built)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Source)
	assert.Equal(t, keys[1], decompiled.Destination)
	assert.Equal(t, keys[2], decompiled.Owner)
	assert.EqualValues(t, 0, decompiled.Amount)
}

func TestBuild_MintTo(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 3)

	built, err := Build(KindMintTo, Params{
		Mint:        keys[0].ToBase58(),
		Destination: keys[1].ToBase58(),
		Authority:   keys[2].ToBase58(),
		Amount:      pointer.Uint64(1_000_000),
	})
	require.NoError(t, err)

	decompiled, err := token.DecompileMintTo(*built)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Mint)
	assert.Equal(t, keys[1], decompiled.Destination)
	assert.Equal(t, keys[2], decompiled.Authority)
	assert.EqualValues(t, 1_000_000, decompiled.Amount)
}

func TestBuild_MissingAmount(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 3)

	for _, kind := range []Kind{KindTransferNative, KindTransferToken, KindMintTo} {
		_, err := Build(kind, Params{
			Mint:        keys[0].ToBase58(),
			From:        keys[0].ToBase58(),
			To:          keys[1].ToBase58(),
			Source:      keys[0].ToBase58(),
			Destination: keys[1].ToBase58(),
			Owner:       keys[2].ToBase58(),
			Authority:   keys[2].ToBase58(),
		})
		require.Error(t, err, kind.String())
		assert.True(t, solana.IsInvalidInput(err))
		assert.Equal(t, "missing amount", err.Error())
	}
}

func TestBuild_InvalidAddress(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 1)
	valid := keys[0].ToBase58()

	for _, invalid := range []string{
		"",
		"0OIl",
		"1111111111111111111111111111111",
		"1" + valid,
	} {
		_, err := Build(KindTransferNative, Params{From: invalid, To: valid, Amount: pointer.Uint64(1)})
		require.Error(t, err)
		assert.True(t, solana.IsInvalidInput(err))
		assert.Contains(t, err.Error(), "invalid sender")

		_, err = Build(KindTransferNative, Params{From: valid, To: invalid, Amount: pointer.Uint64(1)})
		require.Error(t, err)
		assert.True(t, solana.IsInvalidInput(err))
		assert.Contains(t, err.Error(), "invalid recipient")
	}
}

func TestBuild_DecodeOrder(t *testing.T) {
	_, err := Build(KindTransferToken, Params{
		Source:      "bad",
		Destination: "also-bad",
		Owner:       "",
		Amount:      pointer.Uint64(1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source")
}

func TestBuild_ZeroEndpoint(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 2)

	for _, tc := range []struct {
		kind   Kind
		params Params
	}{
		{KindTransferNative, Params{From: zeroAddress, To: keys[0].ToBase58()}},
		{KindTransferNative, Params{From: keys[0].ToBase58(), To: zeroAddress}},
		{KindTransferToken, Params{Source: keys[0].ToBase58(), Destination: zeroAddress, Owner: keys[1].ToBase58()}},
		{KindTransferToken, Params{Source: keys[0].ToBase58(), Destination: keys[1].ToBase58(), Owner: zeroAddress}},
		{KindMintTo, Params{Mint: zeroAddress, Destination: keys[0].ToBase58(), Authority: keys[1].ToBase58()}},
		{KindMintTo, Params{Mint: keys[0].ToBase58(), Destination: keys[1].ToBase58(), Authority: zeroAddress}},
	} {
		tc.params.Amount = pointer.Uint64(1)

		_, err := Build(tc.kind, tc.params)
		require.Error(t, err, tc.kind.String())
		assert.True(t, solana.IsConstructionError(err))
	}
}

func TestBuild_Deterministic(t *testing.T) {
	keys := testutil.GenerateAddresses(t, 3)

	params := Params{
		Source:      keys[0].ToBase58(),
		Destination: keys[1].ToBase58(),
		Owner:       keys[2].ToBase58(),
		Amount:      pointer.Uint64(42),
	}

	first, err := Build(KindTransferToken, params)
	require.NoError(t, err)
	second, err := Build(KindTransferToken, params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuild_UnknownKind(t *testing.T) {
	_, err := Build(KindUnknown, Params{})
	require.Error(t, err)
	assert.True(t, solana.IsInternalError(err))
}
