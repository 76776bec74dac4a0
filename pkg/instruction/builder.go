package instruction

import (
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/instruction-server/pkg/solana"
	"github.com/code-payments/instruction-server/pkg/solana/system"
	"github.com/code-payments/instruction-server/pkg/solana/token"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindInitializeMint
	KindTransferNative
	KindTransferToken
	KindMintTo
)

func (k Kind) String() string {
	switch k {
	case KindInitializeMint:
		return "initialize_mint"
	case KindTransferNative:
		return "transfer_native"
	case KindTransferToken:
		return "transfer_token"
	case KindMintTo:
		return "mint_to"
	default:
		return "unknown"
	}
}

// Params holds the raw, undecoded inputs for every instruction kind. Only the
// fields listed by a kind's table entry are read.
type Params struct {
	Mint            string
	MintAuthority   string
	FreezeAuthority string
	From            string
	To              string
	Source          string
	Destination     string
	Owner           string
	Authority       string

	Amount   *uint64
	Decimals *int64
}

type field struct {
	name     string
	get      func(p *Params) string
	endpoint bool
}

type decoded struct {
	addresses       []solana.Address
	freezeAuthority *solana.Address
	amount          uint64
	decimals        byte
}

type entry struct {
	fields        []field
	needsAmount   bool
	needsDecimals bool
	build         func(d *decoded) solana.Instruction
}

var (
	mintField          = field{name: "mint", get: func(p *Params) string { return p.Mint }}
	mintAuthorityField = field{name: "mint authority", get: func(p *Params) string { return p.MintAuthority }}
	fromField          = field{name: "sender", get: func(p *Params) string { return p.From }, endpoint: true}
	toField            = field{name: "recipient", get: func(p *Params) string { return p.To }, endpoint: true}
	sourceField        = field{name: "source", get: func(p *Params) string { return p.Source }, endpoint: true}
	destinationField   = field{name: "destination", get: func(p *Params) string { return p.Destination }, endpoint: true}
	ownerField         = field{name: "owner", get: func(p *Params) string { return p.Owner }, endpoint: true}
	authorityField     = field{name: "authority", get: func(p *Params) string { return p.Authority }, endpoint: true}
	mintEndpointField  = field{name: "mint", get: func(p *Params) string { return p.Mint }, endpoint: true}
)

var table = map[Kind]entry{
	KindInitializeMint: {
		fields:        []field{mintField, mintAuthorityField},
		needsDecimals: true,
		build: func(d *decoded) solana.Instruction {
			return token.InitializeMint(d.addresses[0], d.addresses[1], d.freezeAuthority, d.decimals)
		},
	},
	KindTransferNative: {
		fields:      []field{fromField, toField},
		needsAmount: true,
		build: func(d *decoded) solana.Instruction {
			return system.Transfer(d.addresses[0], d.addresses[1], d.amount)
		},
	},
	KindTransferToken: {
		fields:      []field{sourceField, destinationField, ownerField},
		needsAmount: true,
		build: func(d *decoded) solana.Instruction {
			return token.Transfer(d.addresses[0], d.addresses[1], d.addresses[2], d.amount)
		},
	},
	KindMintTo: {
		fields:      []field{mintEndpointField, destinationField, authorityField},
		needsAmount: true,
		build: func(d *decoded) solana.Instruction {
			return token.MintTo(d.addresses[0], d.addresses[1], d.addresses[2], d.amount)
		},
	},
}

// Build decodes params for the given kind and assembles the instruction.
//
// Addresses are decoded in table order and the first failure is returned. No
// instruction is produced unless every field decoded.
func Build(kind Kind, params Params) (*solana.Instruction, error) {
	e, ok := table[kind]
	if !ok {
		return nil, solana.NewInternalError(errors.Errorf("unsupported instruction kind: %d", kind), "unsupported instruction kind")
	}

	d := &decoded{
		addresses: make([]solana.Address, len(e.fields)),
	}

	for i, f := range e.fields {
		address, err := solana.NewAddressFromString(f.get(&params))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", f.name)
		}
		if f.endpoint && address.IsZero() {
			return nil, solana.NewConstructionErrorf("%s cannot be the default address", f.name)
		}
		d.addresses[i] = address
	}

	if kind == KindInitializeMint && len(params.FreezeAuthority) > 0 {
		freezeAuthority, err := solana.NewAddressFromString(params.FreezeAuthority)
		if err != nil {
			return nil, errors.Wrap(err, "invalid freeze authority")
		}
		d.freezeAuthority = &freezeAuthority
	}

	if e.needsAmount {
		if params.Amount == nil {
			return nil, solana.NewInvalidInputError("missing amount")
		}
		d.amount = *params.Amount
	}

	if e.needsDecimals {
		if params.Decimals == nil {
			return nil, solana.NewInvalidInputError("missing decimals")
		}
		if *params.Decimals < 0 || *params.Decimals > math.MaxUint8 {
			return nil, solana.NewInvalidInputErrorf("decimals must be between 0 and %d, got %d", math.MaxUint8, *params.Decimals)
		}
		d.decimals = byte(*params.Decimals)
	}

	instruction := e.build(d)
	return &instruction, nil
}
