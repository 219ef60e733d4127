package staderstake

import (
	"github.com/gagliardetto/solana-go"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
)

type orderUnstakeArgs struct {
	StaderSolAmount uint64
}

// OrderUnstake builds the instruction burning staderSOL and recording a
// delayed-unstake ticket. newTicketAccount must be a freshly created,
// zeroed, rent-exempt account owned by the program; the ticket becomes
// claimable only after the program's cool-down elapses.
func OrderUnstake(
	addrs *derive.ProtocolAddresses,
	burnFrom solana.PublicKey,
	burnAuthority solana.PublicKey,
	newTicketAccount solana.PublicKey,
	staderSolAmount uint64,
) (solana.Instruction, error) {
	if staderSolAmount == 0 {
		return nil, &ParamError{Field: "staderSolAmount", Reason: "must be positive"}
	}
	if newTicketAccount.IsZero() {
		return nil, &ParamError{Field: "newTicketAccount", Reason: "must not be the zero address"}
	}

	payload, err := anchorData(ixOrderUnstake, orderUnstakeArgs{StaderSolAmount: staderSolAmount})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(addrs.State).WRITE(),
			solana.Meta(addrs.StaderSolMint).WRITE(),
			solana.Meta(burnFrom).WRITE(),
			solana.Meta(burnAuthority).SIGNER(),
			solana.Meta(newTicketAccount).WRITE(),
			solana.Meta(solana.SysVarClockPubkey),
			solana.Meta(solana.SysVarRentPubkey),
			solana.Meta(solana.TokenProgramID),
		},
		payload,
	), nil
}

type withdrawStakeAccountArgs struct {
	StakeIndex      uint32
	ValidatorIndex  uint32
	StaderSolAmount uint64
	Beneficiary     solana.PublicKey
}

// WithdrawStakeAccountParams carries the withdraw-stake-account operation
// parameters. SplitStakeAccount is a freshly generated keypair that
// receives the split stake; it must co-sign the transaction. StakeCount
// and ValidatorCount are the caller's view of the list sizes; indexes are
// bounds-checked against them before an instruction is built.
type WithdrawStakeAccountParams struct {
	StakeIndex      uint32
	StakeCount      uint32
	ValidatorIndex  uint32
	ValidatorCount  uint32
	StaderSolAmount uint64
	Beneficiary     solana.PublicKey
	StakeAccount    solana.PublicKey
	SplitStake      solana.PublicKey
}

// WithdrawStakeAccount builds the instruction exchanging staderSOL for a
// whole stake account split off an existing one.
func WithdrawStakeAccount(
	addrs *derive.ProtocolAddresses,
	stakeList solana.PublicKey,
	validatorList solana.PublicKey,
	burnFrom solana.PublicKey,
	burnAuthority solana.PublicKey,
	params WithdrawStakeAccountParams,
) (solana.Instruction, error) {
	if params.StaderSolAmount == 0 {
		return nil, &ParamError{Field: "staderSolAmount", Reason: "must be positive"}
	}
	if params.StakeIndex >= params.StakeCount {
		return nil, &ParamError{Field: "stakeIndex", Reason: "out of bounds for known stake list"}
	}
	if params.ValidatorIndex >= params.ValidatorCount {
		return nil, &ParamError{Field: "validatorIndex", Reason: "out of bounds for known validator list"}
	}
	if params.Beneficiary.IsZero() {
		return nil, &ParamError{Field: "beneficiary", Reason: "must not be the zero address"}
	}
	if params.StakeAccount.IsZero() || params.SplitStake.IsZero() {
		return nil, &ParamError{Field: "stakeAccount/splitStake", Reason: "must not be the zero address"}
	}

	payload, err := anchorData(ixWithdrawStakeAccount, withdrawStakeAccountArgs{
		StakeIndex:      params.StakeIndex,
		ValidatorIndex:  params.ValidatorIndex,
		StaderSolAmount: params.StaderSolAmount,
		Beneficiary:     params.Beneficiary,
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(addrs.State).WRITE(),
			solana.Meta(addrs.StaderSolMint).WRITE(),
			solana.Meta(burnFrom).WRITE(),
			solana.Meta(burnAuthority).SIGNER(),
			solana.Meta(addrs.TreasuryStaderSolAccount).WRITE(),
			solana.Meta(validatorList).WRITE(),
			solana.Meta(stakeList).WRITE(),
			solana.Meta(addrs.StakeWithdrawAuthority.Address),
			solana.Meta(addrs.StakeDepositAuthority.Address),
			solana.Meta(params.StakeAccount).WRITE(),
			solana.Meta(params.SplitStake).WRITE().SIGNER(),
			solana.Meta(burnAuthority).WRITE().SIGNER(),
			solana.Meta(solana.SysVarClockPubkey),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.TokenProgramID),
			solana.Meta(solana.StakeProgramID),
		},
		payload,
	), nil
}
