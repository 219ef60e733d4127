package derive

import (
	"github.com/gagliardetto/solana-go"
)

// Pda is a program-derived address together with its bump. The program
// re-derives and authorizes these internally; no private key ever signs
// for one.
type Pda struct {
	Address solana.PublicKey
	Bump    uint8
}

// ProtocolAddresses is the full set of program-owned addresses for one
// deployment, derived once from the program id, the state account and the
// two mints. Immutable for the process lifetime.
type ProtocolAddresses struct {
	ProgramID     solana.PublicKey
	State         solana.PublicKey
	StaderSolMint solana.PublicKey
	LpMint        solana.PublicKey

	StaderSolMintAuthority Pda
	LpMintAuthority        Pda
	Reserve                Pda
	SolLeg                 Pda
	StaderSolLegAuthority  Pda
	StakeDepositAuthority  Pda
	StakeWithdrawAuthority Pda

	// Associated token accounts holding the staking-receipt token.
	StaderSolLeg             solana.PublicKey
	TreasuryStaderSolAccount solana.PublicKey
}

// NewProtocolAddresses derives the complete address set. Any failure here
// means the seed layout disagrees with the deployed program and the process
// cannot usefully continue.
func NewProtocolAddresses(programID, state, staderSolMint, lpMint solana.PublicKey) (*ProtocolAddresses, error) {
	a := &ProtocolAddresses{
		ProgramID:     programID,
		State:         state,
		StaderSolMint: staderSolMint,
		LpMint:        lpMint,
	}

	for _, d := range []struct {
		label string
		dst   *Pda
	}{
		{SeedStaderSolMintAuthority, &a.StaderSolMintAuthority},
		{SeedLpMintAuthority, &a.LpMintAuthority},
		{SeedReserve, &a.Reserve},
		{SeedSolLeg, &a.SolLeg},
		{SeedStaderSolLegAuthority, &a.StaderSolLegAuthority},
		{SeedStakeDeposit, &a.StakeDepositAuthority},
		{SeedStakeWithdraw, &a.StakeWithdrawAuthority},
	} {
		addr, bump, err := Derive(programID, state, d.label)
		if err != nil {
			return nil, err
		}
		d.dst.Address = addr
		d.dst.Bump = bump
	}

	var err error
	a.StaderSolLeg, err = AssociatedTokenAccount(a.StaderSolLegAuthority.Address, staderSolMint)
	if err != nil {
		return nil, err
	}
	a.TreasuryStaderSolAccount, err = AssociatedTokenAccount(state, staderSolMint)
	if err != nil {
		return nil, err
	}
	return a, nil
}
