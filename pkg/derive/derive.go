// Package derive computes every program-owned address the liquid-staking
// protocol needs from a small set of seeds. Derivation is pure: the same
// (program, base, label, extra) tuple always yields the same address and
// bump, so everything here is computed once at startup and passed around
// by reference.
package derive

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Seed labels fixed by the on-chain program. Changing any of these breaks
// address derivation against a deployed state account.
const (
	SeedStaderSolMintAuthority = "st_mint"
	SeedLpMintAuthority        = "liq_mint"
	SeedReserve                = "reserve"
	SeedSolLeg                 = "liq_sol"
	SeedStaderSolLegAuthority  = "liq_st_sol_authority"
	SeedStakeDeposit           = "deposit"
	SeedStakeWithdraw          = "withdraw"
	SeedDuplicationFlag        = "unique_validator"
	seedMetadata               = "metadata"
)

// MetadataProgramID is the Metaplex token-metadata program. It is only used
// to derive per-mint metadata record addresses.
var MetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const maxSeedLen = 32

// SeedError reports an invalid seed combination. It is a programmer error:
// seed tuples are fixed per deployment and never vary at runtime, so this
// is fatal, not recoverable.
type SeedError struct {
	Label  string
	Reason string
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("invalid seed %q: %s", e.Label, e.Reason)
}

// Derive computes the program-derived address for (base, label, extra...)
// under programID, returning the address and its bump.
func Derive(programID, base solana.PublicKey, label string, extra ...[]byte) (solana.PublicKey, uint8, error) {
	if len(label) > maxSeedLen {
		return solana.PublicKey{}, 0, &SeedError{Label: label, Reason: "label exceeds max seed length"}
	}
	seeds := [][]byte{base.Bytes(), []byte(label)}
	for _, e := range extra {
		if len(e) > maxSeedLen {
			return solana.PublicKey{}, 0, &SeedError{Label: label, Reason: "extra seed exceeds max seed length"}
		}
		seeds = append(seeds, e)
	}
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, &SeedError{Label: label, Reason: err.Error()}
	}
	return addr, bump, nil
}

// DuplicationFlag derives the per-validator duplication flag for a
// (state, vote account) pair. Stable across calls for the same pair.
func DuplicationFlag(programID, state, validatorVote solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive(programID, state, SeedDuplicationFlag, validatorVote.Bytes())
}

// MetadataRecord derives the Metaplex metadata record address for a mint.
func MetadataRecord(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		[]byte(seedMetadata),
		MetadataProgramID.Bytes(),
		mint.Bytes(),
	}
	addr, bump, err := solana.FindProgramAddress(seeds, MetadataProgramID)
	if err != nil {
		return solana.PublicKey{}, 0, &SeedError{Label: seedMetadata, Reason: err.Error()}
	}
	return addr, bump, nil
}

// AssociatedTokenAccount derives the associated token account of wallet for
// mint. Works for off-curve (program-derived) owners as well.
func AssociatedTokenAccount(wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return solana.PublicKey{}, &SeedError{Label: "associated_token", Reason: err.Error()}
	}
	return addr, nil
}
