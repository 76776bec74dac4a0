package api

import (
	"encoding/base64"

	"github.com/code-payments/instruction-server/pkg/signer"
	"github.com/code-payments/instruction-server/pkg/solana"
)

type accountView struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

type instructionView struct {
	ProgramId       string        `json:"program_id"`
	Accounts        []accountView `json:"accounts"`
	InstructionData string        `json:"instruction_data"`
}

func newInstructionView(i *solana.Instruction) *instructionView {
	accounts := make([]accountView, len(i.Accounts))
	for idx, account := range i.Accounts {
		accounts[idx] = accountView{
			Pubkey:     account.PublicKey.ToBase58(),
			IsSigner:   account.IsSigner,
			IsWritable: account.IsWritable,
		}
	}

	return &instructionView{
		ProgramId:       i.Program.ToBase58(),
		Accounts:        accounts,
		InstructionData: base64.StdEncoding.EncodeToString(i.Data),
	}
}

type keypairView struct {
	Pubkey string `json:"pubkey"`
	Secret string `json:"secret"`
}

func newKeypairView(k *signer.Keypair) *keypairView {
	return &keypairView{
		Pubkey: k.PublicKey().ToBase58(),
		Secret: k.SecretToBase58(),
	}
}

type signedMessageView struct {
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
	Message   string `json:"message"`
}

func newSignedMessageView(m *signer.SignedMessage) *signedMessageView {
	return &signedMessageView{
		Signature: m.Signature.ToBase64(),
		PublicKey: m.PublicKey.ToBase58(),
		Message:   string(m.Message),
	}
}

type verifiedMessageView struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Pubkey  string `json:"pubkey"`
}

type healthView struct {
	Status string `json:"status"`
}
