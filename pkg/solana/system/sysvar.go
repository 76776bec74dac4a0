package system

import (
	"github.com/code-payments/instruction-server/pkg/solana"
)

// https://explorer.solana.com/address/11111111111111111111111111111111
var SystemAccount solana.Address

// RentSysVar points to the system variable "Rent"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysVar solana.Address

func init() {
	RentSysVar = solana.MustAddressFromString("SysvarRent111111111111111111111111111111111")
	SystemAccount = solana.MustAddressFromString("11111111111111111111111111111111")
}
