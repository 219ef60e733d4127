package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway/gatewaytest"
)

const rentForTokenAccount = 2_039_280

type fixture struct {
	gw            *gatewaytest.Fake
	addrs         *derive.ProtocolAddresses
	payer         solana.PrivateKey
	staderSolMint solana.PrivateKey
	lpMint        solana.PrivateKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	payer := solana.NewWallet()
	staderSolMint := solana.NewWallet()
	lpMint := solana.NewWallet()

	addrs, err := derive.NewProtocolAddresses(
		solana.MustPublicKeyFromBase58("MarBmsSgKXdrN1egZf5sqe1TMai9K1rChYNDJgjq7aD"),
		solana.MustPublicKeyFromBase58("16FMCmgLzCNNz6eTwGanbyN2ZxvTBSLuQ6DZhgeMshg"),
		staderSolMint.PublicKey(),
		lpMint.PublicKey(),
	)
	require.NoError(t, err)

	gw := gatewaytest.New()
	gw.RentExempt[mintAccountSize] = 1_461_600
	gw.RentExempt[tokenAccountSize] = rentForTokenAccount

	return &fixture{
		gw:            gw,
		addrs:         addrs,
		payer:         payer.PrivateKey,
		staderSolMint: staderSolMint.PrivateKey,
		lpMint:        lpMint.PrivateKey,
	}
}

// markBootstrapped records every bootstrap target as existing and funded.
func (f *fixture) markBootstrapped(t *testing.T) {
	t.Helper()
	payerStaderSol, err := derive.AssociatedTokenAccount(f.payer.PublicKey(), f.addrs.StaderSolMint)
	require.NoError(t, err)
	payerLp, err := derive.AssociatedTokenAccount(f.payer.PublicKey(), f.addrs.LpMint)
	require.NoError(t, err)

	for _, addr := range []solana.PublicKey{
		f.addrs.StaderSolMint,
		f.addrs.LpMint,
		f.addrs.TreasuryStaderSolAccount,
		f.addrs.StaderSolLeg,
		payerStaderSol,
		payerLp,
	} {
		f.gw.Accounts[addr] = []byte{1}
	}
	f.gw.Balances[f.addrs.Reserve.Address] = rentForTokenAccount
	f.gw.Balances[f.addrs.SolLeg.Address] = rentForTokenAccount
}

// A fresh deployment needs two mint creations (create + init each), four
// token accounts and two funding transfers.
func TestBuildPlan_FreshDeployment(t *testing.T) {
	f := newFixture(t)

	plan, err := New(f.gw, f.addrs).BuildPlan(context.Background(), f.payer.PublicKey(), f.staderSolMint, f.lpMint)
	require.NoError(t, err)

	assert.Len(t, plan.Instructions, 4+4+2)
	require.Len(t, plan.MintSigners, 2)
	assert.Equal(t, f.staderSolMint.PublicKey(), plan.MintSigners[0].PublicKey())
	assert.Equal(t, f.lpMint.PublicKey(), plan.MintSigners[1].PublicKey())
}

// Idempotence law: against an already bootstrapped deployment the plan is
// empty and a run is a no-op with no submission.
func TestBuildPlan_SteadyState(t *testing.T) {
	f := newFixture(t)
	f.markBootstrapped(t)

	plan, err := New(f.gw, f.addrs).BuildPlan(context.Background(), f.payer.PublicKey(), f.staderSolMint, f.lpMint)
	require.NoError(t, err)
	assert.Empty(t, plan.Instructions)
	assert.Empty(t, plan.MintSigners)

	require.NoError(t, New(f.gw, f.addrs).Run(context.Background(), f.payer, f.staderSolMint, f.lpMint))
	assert.Empty(t, f.gw.Submitted, "steady state must not submit anything")
}

// Funding boundary: a balance exactly at the requirement gets no transfer;
// one lamport below gets a top-up of exactly the difference.
func TestBuildPlan_FundingBoundary(t *testing.T) {
	f := newFixture(t)
	f.markBootstrapped(t)

	f.gw.Balances[f.addrs.Reserve.Address] = rentForTokenAccount
	f.gw.Balances[f.addrs.SolLeg.Address] = rentForTokenAccount - 1

	plan, err := New(f.gw, f.addrs).BuildPlan(context.Background(), f.payer.PublicKey(), f.staderSolMint, f.lpMint)
	require.NoError(t, err)

	// Only the sol leg is below the requirement.
	require.Len(t, plan.Instructions, 1)
	assert.Equal(t, solana.SystemProgramID, plan.Instructions[0].ProgramID())
}

func TestBuildPlan_RejectsMismatchedMintKeypair(t *testing.T) {
	f := newFixture(t)

	wrong := solana.NewWallet().PrivateKey
	_, err := New(f.gw, f.addrs).BuildPlan(context.Background(), f.payer.PublicKey(), wrong, f.lpMint)
	require.Error(t, err)
}

// A failed submission is only reported as already-bootstrapped after
// direct lookups confirm every target; otherwise it is a PartialError
// naming what is still missing.
func TestRun_FailureClassification(t *testing.T) {
	f := newFixture(t)
	f.gw.SubmitErr = errors.New("Transaction simulation failed")

	err := New(f.gw, f.addrs).Run(context.Background(), f.payer, f.staderSolMint, f.lpMint)
	var partial *PartialError
	require.ErrorAs(t, err, &partial)
	assert.Contains(t, partial.Missing, "staderSolMint")
	assert.Contains(t, partial.Missing, "reserve")

	// Same failing submission, but a concurrent bootstrapper landed the
	// accounts first: verification finds everything present, so this is
	// the expected steady state, not an error.
	f2 := newFixture(t)
	f2.gw.SubmitErr = errors.New("account already in use")
	f2.gw.SubmitFunc = func(tx *solana.Transaction) { f2.markBootstrapped(t) }

	require.NoError(t, New(f2.gw, f2.addrs).Run(context.Background(), f2.payer, f2.staderSolMint, f2.lpMint))
	assert.Len(t, f2.gw.Submitted, 1)
}
