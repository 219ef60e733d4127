// Package bootstrap builds and submits the single transaction that must
// land before any protocol instruction can succeed: both token mints, the
// associated token accounts holding the staking receipt, and the minimum
// rent-exempt balances on the reserve and liquidity sol-leg PDAs. The
// orchestrator is idempotent: re-running it against an already bootstrapped
// deployment appends no instructions and is the expected steady state.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway"
	"github.com/0xabstracted/stader-liquid-staking/pkg/txbuild"
)

const (
	mintAccountSize  = 82
	tokenAccountSize = 165
	mintDecimals     = 9
)

// PartialError reports a bootstrap submission failure after which direct
// account lookups still found prerequisites missing. Resolved by an
// idempotent re-run, never by rollback.
type PartialError struct {
	Missing []string
	Cause   error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("bootstrap incomplete, missing %s: %v", strings.Join(e.Missing, ", "), e.Cause)
}

func (e *PartialError) Unwrap() error { return e.Cause }

// Orchestrator bootstraps one deployment's prerequisite accounts.
type Orchestrator struct {
	gw    gateway.Gateway
	addrs *derive.ProtocolAddresses
}

func New(gw gateway.Gateway, addrs *derive.ProtocolAddresses) *Orchestrator {
	return &Orchestrator{gw: gw, addrs: addrs}
}

// Plan is the instruction set a run decided on, kept separate from
// submission so tests and encode-only flows can inspect it.
type Plan struct {
	Instructions []solana.Instruction
	// MintSigners holds the mint keypairs whose creation instructions
	// were appended this run; only those must co-sign.
	MintSigners []solana.PrivateKey
}

// BuildPlan queries current ledger state and appends only the instructions
// still needed. Balances are read immediately before planning; the remote
// program remains the final arbiter under concurrent bootstrappers.
func (o *Orchestrator) BuildPlan(ctx context.Context, payer solana.PublicKey, staderSolMint, lpMint solana.PrivateKey) (*Plan, error) {
	plan := &Plan{}

	rentForMint, err := o.gw.MinimumBalanceForRentExemption(ctx, mintAccountSize)
	if err != nil {
		return nil, err
	}
	fundTarget, err := o.gw.MinimumBalanceForRentExemption(ctx, tokenAccountSize)
	if err != nil {
		return nil, err
	}

	// Token mints, only when absent.
	for _, m := range []struct {
		name      string
		key       solana.PrivateKey
		expected  solana.PublicKey
		authority solana.PublicKey
	}{
		{"staderSolMint", staderSolMint, o.addrs.StaderSolMint, o.addrs.StaderSolMintAuthority.Address},
		{"lpMint", lpMint, o.addrs.LpMint, o.addrs.LpMintAuthority.Address},
	} {
		if !m.key.PublicKey().Equals(m.expected) {
			return nil, fmt.Errorf("%s keypair %s does not match configured mint %s", m.name, m.key.PublicKey(), m.expected)
		}
		exists, err := o.gw.AccountExists(ctx, m.expected)
		if err != nil {
			return nil, err
		}
		if exists {
			klog.V(1).Infof("mint %s already exists at %s", m.name, m.expected)
			continue
		}
		plan.Instructions = append(plan.Instructions,
			system.NewCreateAccountInstruction(
				rentForMint,
				mintAccountSize,
				solana.TokenProgramID,
				payer,
				m.expected,
			).Build(),
			token.NewInitializeMintInstructionBuilder().
				SetDecimals(mintDecimals).
				SetMintAuthority(m.authority).
				SetMintAccount(m.expected).
				SetSysVarRentPubkeyAccount(solana.SysVarRentPubkey).
				Build(),
		)
		plan.MintSigners = append(plan.MintSigners, m.key)
	}

	// Associated token accounts for every holder of the staking receipt,
	// plus the payer's own receipt and LP accounts.
	for _, a := range []struct {
		name   string
		owner  solana.PublicKey
		mint   solana.PublicKey
		target solana.PublicKey
	}{
		{"treasuryStaderSolAccount", o.addrs.State, o.addrs.StaderSolMint, o.addrs.TreasuryStaderSolAccount},
		{"staderSolLeg", o.addrs.StaderSolLegAuthority.Address, o.addrs.StaderSolMint, o.addrs.StaderSolLeg},
		{"payerStaderSolAccount", payer, o.addrs.StaderSolMint, solana.PublicKey{}},
		{"payerLpAccount", payer, o.addrs.LpMint, solana.PublicKey{}},
	} {
		target := a.target
		if target.IsZero() {
			target, err = derive.AssociatedTokenAccount(a.owner, a.mint)
			if err != nil {
				return nil, err
			}
		}
		exists, err := o.gw.AccountExists(ctx, target)
		if err != nil {
			return nil, err
		}
		if exists {
			klog.V(1).Infof("token account %s already exists at %s", a.name, target)
			continue
		}
		plan.Instructions = append(plan.Instructions,
			associatedtokenaccount.NewCreateInstruction(payer, a.owner, a.mint).Build())
	}

	// Rent funding for program-derived accounts, only when strictly below
	// the requirement; an exactly funded account gets nothing.
	for _, p := range []struct {
		name string
		addr solana.PublicKey
	}{
		{"reserve", o.addrs.Reserve.Address},
		{"solLeg", o.addrs.SolLeg.Address},
	} {
		balance, err := o.gw.Balance(ctx, p.addr)
		if err != nil {
			return nil, err
		}
		if balance >= fundTarget {
			klog.V(1).Infof("%s already funded with %d lamports", p.name, balance)
			continue
		}
		plan.Instructions = append(plan.Instructions,
			system.NewTransferInstruction(fundTarget-balance, payer, p.addr).Build())
	}

	return plan, nil
}

// Run plans, assembles, signs and submits the bootstrap transaction as one
// atomic unit. A submission failure is reported as already-bootstrapped
// only after direct lookups confirm every target account exists; anything
// still missing yields a PartialError.
func (o *Orchestrator) Run(ctx context.Context, payer solana.PrivateKey, staderSolMint, lpMint solana.PrivateKey) error {
	plan, err := o.BuildPlan(ctx, payer.PublicKey(), staderSolMint, lpMint)
	if err != nil {
		return err
	}
	if len(plan.Instructions) == 0 {
		klog.Info("bootstrap: all prerequisite accounts present, nothing to do")
		return nil
	}

	tx, bh, err := txbuild.NewBuilder(payer.PublicKey()).
		Append(plan.Instructions...).
		Build(ctx, o.gw)
	if err != nil {
		return err
	}

	signers := append([]solana.PrivateKey{payer}, plan.MintSigners...)
	if err := txbuild.Sign(tx, signers); err != nil {
		return err
	}

	sig, err := o.gw.Submit(ctx, tx, bh.LastValidBlockHeight, false)
	if err != nil {
		missing, verr := o.verify(ctx, payer.PublicKey())
		if verr != nil {
			// Diagnosis is best effort; the submission error wins.
			klog.Errorf("bootstrap: verification after failed submission also failed: %v", verr)
			return err
		}
		if len(missing) == 0 {
			klog.Infof("bootstrap: submission failed (%v) but all prerequisite accounts exist; treating as already bootstrapped", err)
			return nil
		}
		return &PartialError{Missing: missing, Cause: err}
	}

	klog.Infof("bootstrap: confirmed %s with %d instructions", sig, len(plan.Instructions))
	return nil
}

// verify looks up every bootstrap target directly and returns the names of
// those still missing. Lookups run concurrently; the gateway is stateless
// per call.
func (o *Orchestrator) verify(ctx context.Context, payer solana.PublicKey) ([]string, error) {
	payerStaderSol, err := derive.AssociatedTokenAccount(payer, o.addrs.StaderSolMint)
	if err != nil {
		return nil, err
	}
	payerLp, err := derive.AssociatedTokenAccount(payer, o.addrs.LpMint)
	if err != nil {
		return nil, err
	}
	fundTarget, err := o.gw.MinimumBalanceForRentExemption(ctx, tokenAccountSize)
	if err != nil {
		return nil, err
	}

	targets := []struct {
		name string
		addr solana.PublicKey
		// fundedTo > 0 checks balance instead of existence.
		fundedTo uint64
	}{
		{name: "staderSolMint", addr: o.addrs.StaderSolMint},
		{name: "lpMint", addr: o.addrs.LpMint},
		{name: "treasuryStaderSolAccount", addr: o.addrs.TreasuryStaderSolAccount},
		{name: "staderSolLeg", addr: o.addrs.StaderSolLeg},
		{name: "payerStaderSolAccount", addr: payerStaderSol},
		{name: "payerLpAccount", addr: payerLp},
		{name: "reserve", addr: o.addrs.Reserve.Address, fundedTo: fundTarget},
		{name: "solLeg", addr: o.addrs.SolLeg.Address, fundedTo: fundTarget},
	}

	present := make([]bool, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			if t.fundedTo > 0 {
				balance, err := o.gw.Balance(gctx, t.addr)
				if err != nil {
					return err
				}
				present[i] = balance >= t.fundedTo
				return nil
			}
			exists, err := o.gw.AccountExists(gctx, t.addr)
			if err != nil {
				return err
			}
			present[i] = exists
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var missing []string
	for i, t := range targets {
		if !present[i] {
			missing = append(missing, t.name)
		}
	}
	return missing, nil
}
