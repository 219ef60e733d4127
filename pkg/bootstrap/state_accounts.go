package bootstrap

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway"
)

// StateAccountSpec names one of the large program-owned accounts created
// once before initialize and referenced by address ever after.
type StateAccountSpec struct {
	Account solana.PublicKey
	Space   uint64
}

// StateAccountInstructions builds the create-account instructions for the
// state, stake-list and validator-list accounts, each zeroed, rent-exempt
// and owned by the program. The matching keypairs must co-sign the
// initialize transaction.
func StateAccountInstructions(
	ctx context.Context,
	gw gateway.Gateway,
	programID solana.PublicKey,
	payer solana.PublicKey,
	specs []StateAccountSpec,
) ([]solana.Instruction, error) {
	instructions := make([]solana.Instruction, 0, len(specs))
	for _, spec := range specs {
		rent, err := gw.MinimumBalanceForRentExemption(ctx, spec.Space)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, system.NewCreateAccountInstruction(
			rent,
			spec.Space,
			programID,
			payer,
			spec.Account,
		).Build())
	}
	return instructions, nil
}
