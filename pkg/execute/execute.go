// Package execute signs, submits and confirms transactions, attaching the
// authoritative program state to failures for diagnosis. It never retries:
// every operation here moves value or mutates on-chain state, and a silent
// resubmission risks duplication. Callers inspect the failure and decide.
package execute

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway"
	"github.com/0xabstracted/stader-liquid-staking/pkg/txbuild"
)

// SubmissionError wraps a rejected or expired submission together with a
// best-effort snapshot of the program state fetched afterwards. A failure
// to fetch the snapshot never masks the original error.
type SubmissionError struct {
	Cause error
	// Diagnostic is the raw program state account data at the time of
	// failure, nil when the diagnostic fetch itself failed.
	Diagnostic []byte
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error { return e.Cause }

// Stale reports whether err is a stale-blockhash failure, after which the
// caller should rebuild with a fresh blockhash and resubmit the identical
// instruction set.
func Stale(err error) bool {
	return errors.Is(err, gateway.ErrStaleBlockhash)
}

// Options adjust a single submission.
type Options struct {
	SkipPreflight bool
}

// Controller executes transaction units against one deployment.
type Controller struct {
	gw           gateway.Gateway
	stateAccount solana.PublicKey
}

func NewController(gw gateway.Gateway, stateAccount solana.PublicKey) *Controller {
	return &Controller{gw: gw, stateAccount: stateAccount}
}

// Run signs tx with exactly the supplied signer set and submits it. A
// missing required signer fails before any network call. On failure the
// program state is fetched read-only and attached for diagnosis.
func (c *Controller) Run(
	ctx context.Context,
	tx *solana.Transaction,
	bh gateway.Blockhash,
	signers []solana.PrivateKey,
	opts Options,
) (solana.Signature, error) {
	if err := txbuild.Sign(tx, signers); err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.gw.Submit(ctx, tx, bh.LastValidBlockHeight, opts.SkipPreflight)
	if err != nil {
		return sig, &SubmissionError{Cause: err, Diagnostic: c.fetchDiagnostic(ctx)}
	}

	klog.V(1).Infof("confirmed %s", sig)
	return sig, nil
}

func (c *Controller) fetchDiagnostic(ctx context.Context) []byte {
	acc, err := c.gw.AccountInfo(ctx, c.stateAccount)
	if err != nil {
		klog.Errorf("diagnostic state fetch failed: %v", err)
		return nil
	}
	if acc == nil || acc.Data == nil {
		return nil
	}
	return acc.Data.GetBinary()
}
