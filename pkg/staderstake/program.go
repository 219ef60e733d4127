// Package staderstake builds instructions for the Stader liquid-staking
// program. Each builder is a pure mapping from (parameters, pre-derived
// addresses) to a single instruction carrying the exact account set the
// program's versioned layout requires; builders never touch the network.
package staderstake

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Instruction method names as declared by the program. The 8-byte anchor
// discriminator is sha256("global:<name>")[:8].
const (
	ixInitialize               = "initialize"
	ixConfigStader             = "config_stader"
	ixAddValidator             = "add_validator"
	ixDeposit                  = "deposit"
	ixDepositStakeAccount      = "deposit_stake_account"
	ixOrderUnstake             = "order_unstake"
	ixWithdrawStakeAccount     = "withdraw_stake_account"
	ixUpdateStaderSolMetadata  = "update_stader_sol_token_metadata"
	ixUpdateLpMintMetadata     = "update_lp_mint_token_metadata"
)

// TicketAccountSize is the on-chain size of a delayed-unstake ticket:
// 8 (discriminator) + 32 (state) + 32 (beneficiary) + 8 (lamports) +
// 8 (created epoch).
const TicketAccountSize = 88

func discriminator(name string) [8]byte {
	h := sha256.Sum256([]byte("global:" + name))
	var d [8]byte
	copy(d[:], h[:8])
	return d
}

func anchorData(name string, args interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	d := discriminator(name)
	buf.Write(d[:])
	if args != nil {
		if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
			return nil, fmt.Errorf("encode %s args: %w", name, err)
		}
	}
	return buf.Bytes(), nil
}

// ParamError reports a malformed builder parameter. Builders fail fast
// rather than constructing an instruction the program would reject.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// PrerequisiteError reports that an account an instruction depends on does
// not exist yet (mint, rent-funded PDA, token account).
type PrerequisiteError struct {
	Account string
	Address solana.PublicKey
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("prerequisite account %s (%s) does not exist", e.Account, e.Address)
}
