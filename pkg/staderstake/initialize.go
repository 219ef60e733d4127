package staderstake

import (
	"github.com/gagliardetto/solana-go"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
)

// InitializeAccounts are the externally supplied accounts initialize needs
// beyond the derived set.
type InitializeAccounts struct {
	StakeList             solana.PublicKey
	ValidatorList         solana.PublicKey
	OperationalSolAccount solana.PublicKey
}

// Initialize builds the one-time state initialization instruction. The
// state, stake-list and validator-list accounts must already exist as
// zeroed program-owned accounts (see bootstrap.StateAccountInstructions).
func Initialize(addrs *derive.ProtocolAddresses, accs InitializeAccounts, data InitializeData) (solana.Instruction, error) {
	if data.AdminAuthority.IsZero() {
		return nil, &ParamError{Field: "adminAuthority", Reason: "must not be the zero address"}
	}
	if data.ValidatorManagerAuthority.IsZero() {
		return nil, &ParamError{Field: "validatorManagerAuthority", Reason: "must not be the zero address"}
	}
	if data.MinStake == 0 {
		return nil, &ParamError{Field: "minStake", Reason: "must be positive"}
	}
	if accs.StakeList.IsZero() || accs.ValidatorList.IsZero() {
		return nil, &ParamError{Field: "stakeList/validatorList", Reason: "must not be the zero address"}
	}

	payload, err := anchorData(ixInitialize, data)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(addrs.State).WRITE(),
			solana.Meta(addrs.Reserve.Address),
			solana.Meta(accs.StakeList).WRITE(),
			solana.Meta(accs.ValidatorList).WRITE(),
			solana.Meta(addrs.StaderSolMint),
			solana.Meta(accs.OperationalSolAccount),
			solana.Meta(addrs.LpMint),
			solana.Meta(addrs.SolLeg.Address),
			solana.Meta(addrs.StaderSolLeg),
			solana.Meta(addrs.TreasuryStaderSolAccount),
			solana.Meta(solana.SysVarClockPubkey),
			solana.Meta(solana.SysVarRentPubkey),
		},
		payload,
	), nil
}

// ConfigStader builds the admin reconfiguration instruction. Signed by the
// admin authority only.
func ConfigStader(addrs *derive.ProtocolAddresses, adminAuthority solana.PublicKey, params ConfigStaderParams) (solana.Instruction, error) {
	if adminAuthority.IsZero() {
		return nil, &ParamError{Field: "adminAuthority", Reason: "must not be the zero address"}
	}

	payload, err := anchorData(ixConfigStader, params)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(addrs.State).WRITE(),
			solana.Meta(adminAuthority).SIGNER(),
		},
		payload,
	), nil
}
