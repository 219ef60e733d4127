package staderstake

import (
	"github.com/gagliardetto/solana-go"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
)

type depositArgs struct {
	Lamports uint64
}

// Deposit builds the SOL-deposit instruction minting staking receipts to
// mintTo. transferFrom is the depositing user and the only signer.
func Deposit(
	addrs *derive.ProtocolAddresses,
	transferFrom solana.PublicKey,
	mintTo solana.PublicKey,
	lamports uint64,
) (solana.Instruction, error) {
	if lamports == 0 {
		return nil, &ParamError{Field: "lamports", Reason: "must be positive"}
	}
	if transferFrom.IsZero() {
		return nil, &ParamError{Field: "transferFrom", Reason: "must not be the zero address"}
	}
	if mintTo.IsZero() {
		return nil, &ParamError{Field: "mintTo", Reason: "must not be the zero address"}
	}

	payload, err := anchorData(ixDeposit, depositArgs{Lamports: lamports})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(addrs.State).WRITE(),
			solana.Meta(addrs.StaderSolMint).WRITE(),
			solana.Meta(addrs.SolLeg.Address).WRITE(),
			solana.Meta(addrs.StaderSolLeg).WRITE(),
			solana.Meta(addrs.StaderSolLegAuthority.Address),
			solana.Meta(addrs.Reserve.Address).WRITE(),
			solana.Meta(transferFrom).WRITE().SIGNER(),
			solana.Meta(mintTo).WRITE(),
			solana.Meta(addrs.StaderSolMintAuthority.Address),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.TokenProgramID),
		},
		payload,
	), nil
}
