package staderstake

import (
	"github.com/gagliardetto/solana-go"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
)

type addValidatorArgs struct {
	Score uint32
}

// AddValidator builds the manager-only instruction registering a validator
// vote account. The duplication flag PDA is derived from the (state, vote)
// pair; a second add for the same vote account derives the same flag and
// the program rejects it.
func AddValidator(
	addrs *derive.ProtocolAddresses,
	validatorList solana.PublicKey,
	managerAuthority solana.PublicKey,
	rentPayer solana.PublicKey,
	validatorVote solana.PublicKey,
	score uint32,
) (solana.Instruction, error) {
	if validatorVote.IsZero() {
		return nil, &ParamError{Field: "validatorVote", Reason: "must not be the zero address"}
	}
	if managerAuthority.IsZero() {
		return nil, &ParamError{Field: "managerAuthority", Reason: "must not be the zero address"}
	}

	duplicationFlag, _, err := derive.DuplicationFlag(addrs.ProgramID, addrs.State, validatorVote)
	if err != nil {
		return nil, err
	}

	payload, err := anchorData(ixAddValidator, addValidatorArgs{Score: score})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(addrs.State).WRITE(),
			solana.Meta(managerAuthority).SIGNER(),
			solana.Meta(validatorList).WRITE(),
			solana.Meta(validatorVote),
			solana.Meta(duplicationFlag).WRITE(),
			solana.Meta(rentPayer).WRITE().SIGNER(),
			solana.Meta(solana.SysVarClockPubkey),
			solana.Meta(solana.SysVarRentPubkey),
			solana.Meta(solana.SystemProgramID),
		},
		payload,
	), nil
}

type depositStakeAccountArgs struct {
	ValidatorIndex uint32
}

// DepositStakeAccount builds the instruction converting an existing stake
// account into staking receipts. validatorIndex must address an entry in
// the validator list.
func DepositStakeAccount(
	addrs *derive.ProtocolAddresses,
	stakeList solana.PublicKey,
	validatorList solana.PublicKey,
	stakeAccount solana.PublicKey,
	stakeAuthority solana.PublicKey,
	rentPayer solana.PublicKey,
	validatorVote solana.PublicKey,
	mintTo solana.PublicKey,
	validatorIndex uint32,
	validatorCount uint32,
) (solana.Instruction, error) {
	if stakeAccount.IsZero() {
		return nil, &ParamError{Field: "stakeAccount", Reason: "must not be the zero address"}
	}
	if validatorIndex >= validatorCount {
		return nil, &ParamError{Field: "validatorIndex", Reason: "out of bounds for known validator list"}
	}

	duplicationFlag, _, err := derive.DuplicationFlag(addrs.ProgramID, addrs.State, validatorVote)
	if err != nil {
		return nil, err
	}

	payload, err := anchorData(ixDepositStakeAccount, depositStakeAccountArgs{ValidatorIndex: validatorIndex})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(addrs.State).WRITE(),
			solana.Meta(validatorList).WRITE(),
			solana.Meta(stakeList).WRITE(),
			solana.Meta(stakeAccount).WRITE(),
			solana.Meta(stakeAuthority).SIGNER(),
			solana.Meta(duplicationFlag).WRITE(),
			solana.Meta(rentPayer).WRITE().SIGNER(),
			solana.Meta(addrs.StaderSolMint).WRITE(),
			solana.Meta(mintTo).WRITE(),
			solana.Meta(addrs.StaderSolMintAuthority.Address),
			solana.Meta(solana.SysVarClockPubkey),
			solana.Meta(solana.SysVarRentPubkey),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.TokenProgramID),
			solana.Meta(solana.StakeProgramID),
		},
		payload,
	), nil
}
