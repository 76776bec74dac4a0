package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/code-payments/instruction-server/pkg/instruction"
	"github.com/code-payments/instruction-server/pkg/pointer"
	"github.com/code-payments/instruction-server/pkg/solana"
)

type createTokenRequest struct {
	MintAuthority   string  `json:"mintAuthority"`
	Mint            string  `json:"mint"`
	Decimals        *int64  `json:"decimals"`
	FreezeAuthority *string `json:"freezeAuthority"`
}

func (r *createTokenRequest) toParams() instruction.Params {
	params := instruction.Params{
		Mint:          r.Mint,
		MintAuthority: r.MintAuthority,
		Decimals:      pointer.Int64Copy(r.Decimals),
	}

	// The mint authority doubles as the freeze authority unless one is given
	params.FreezeAuthority = *pointer.StringOrDefault(r.FreezeAuthority, r.MintAuthority)

	return params
}

type mintTokenRequest struct {
	Mint        string  `json:"mint"`
	Destination string  `json:"destination"`
	Authority   string  `json:"authority"`
	Amount      *uint64 `json:"amount"`
}

func (r *mintTokenRequest) toParams() instruction.Params {
	return instruction.Params{
		Mint:        r.Mint,
		Destination: r.Destination,
		Authority:   r.Authority,
		Amount:      pointer.Uint64Copy(r.Amount),
	}
}

type sendSolRequest struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Lamports *uint64 `json:"lamports"`
}

func (r *sendSolRequest) toParams() instruction.Params {
	return instruction.Params{
		From:   r.From,
		To:     r.To,
		Amount: pointer.Uint64Copy(r.Lamports),
	}
}

type sendTokenRequest struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	Owner       string  `json:"owner"`
	Amount      *uint64 `json:"amount"`
}

func (r *sendTokenRequest) toParams() instruction.Params {
	return instruction.Params{
		Source:      r.Source,
		Destination: r.Destination,
		Owner:       r.Owner,
		Amount:      pointer.Uint64Copy(r.Amount),
	}
}

type signMessageRequest struct {
	Message string `json:"message"`
	Secret  string `json:"secret"`
}

type verifyMessageRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	Pubkey    string `json:"pubkey"`
}

// decodeJsonBody reads at most maxSize bytes of the request body into dst.
// Every failure is reported as invalid input.
func decodeJsonBody(w http.ResponseWriter, r *http.Request, maxSize uint64, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(maxSize)))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return solana.NewInvalidInputErrorf("request body exceeds %d bytes", maxSize)
		}
		return solana.WrapInvalidInput(err, "error reading request body")
	}

	if len(body) == 0 {
		return solana.NewInvalidInputError("request body is empty")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return solana.WrapInvalidInput(err, "request body is not valid json")
	}
	return nil
}
