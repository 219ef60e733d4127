// Package gateway is a thin facade over a remote Solana RPC endpoint. Every
// call is stateless; callers decide how to react to failures. Submission
// blocks until the requested commitment is reached or the blockhash the
// transaction was built against expires.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ErrStaleBlockhash is returned when the chain moved past a transaction's
// lastValidBlockHeight without confirming it. The caller must rebuild with
// a fresh blockhash and resubmit; the gateway never retries on its own.
var ErrStaleBlockhash = errors.New("blockhash expired before confirmation")

// Blockhash is a recent blockhash plus the last block height at which a
// transaction built against it is still accepted.
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// RejectedError wraps a terminal on-chain rejection reported for a
// submitted signature.
type RejectedError struct {
	Signature solana.Signature
	TxErr     interface{}
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction %s rejected: %v", e.Signature, e.TxErr)
}

// Gateway is the ledger surface the orchestration layers depend on. The
// production implementation is Client; tests substitute fakes.
type Gateway interface {
	Balance(ctx context.Context, addr solana.PublicKey) (uint64, error)
	AccountExists(ctx context.Context, addr solana.PublicKey) (bool, error)
	AccountInfo(ctx context.Context, addr solana.PublicKey) (*rpc.Account, error)
	LatestBlockhash(ctx context.Context) (Blockhash, error)
	MinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error)
	Submit(ctx context.Context, tx *solana.Transaction, lastValidBlockHeight uint64, skipPreflight bool) (solana.Signature, error)
}

// Client implements Gateway against a single RPC endpoint at a fixed
// commitment level.
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType

	pollInterval time.Duration
}

var _ Gateway = (*Client)(nil)

func New(endpoint string, commitment rpc.CommitmentType) *Client {
	return &Client{
		rpc:          rpc.New(endpoint),
		commitment:   commitment,
		pollInterval: 500 * time.Millisecond,
	}
}

func (c *Client) Balance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, addr, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("getBalance %s: %w", addr, err)
	}
	return out.Value, nil
}

func (c *Client) AccountExists(ctx context.Context, addr solana.PublicKey) (bool, error) {
	acc, err := c.AccountInfo(ctx, addr)
	if err != nil {
		return false, err
	}
	return acc != nil, nil
}

// AccountInfo returns nil without error when the account does not exist.
func (c *Client) AccountInfo(ctx context.Context, addr solana.PublicKey) (*rpc.Account, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getAccountInfo %s: %w", addr, err)
	}
	if out == nil || out.Value == nil {
		return nil, nil
	}
	return out.Value, nil
}

func (c *Client) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return Blockhash{}, fmt.Errorf("getLatestBlockhash: %w", err)
	}
	return Blockhash{
		Hash:                 out.Value.Blockhash,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

func (c *Client) MinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, dataSize, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("getMinimumBalanceForRentExemption: %w", err)
	}
	return lamports, nil
}

// Submit sends a fully signed transaction and blocks until it reaches the
// client's commitment level, is rejected on-chain, or its blockhash expires
// (ErrStaleBlockhash). The ledger state change is the only side effect; on
// context cancellation the transaction may still land and the caller must
// reconcile via state queries.
func (c *Client) Submit(ctx context.Context, tx *solana.Transaction, lastValidBlockHeight uint64, skipPreflight bool) (solana.Signature, error) {
	submissionsTotal.Inc()

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       skipPreflight,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		submissionFailures.Inc()
		return solana.Signature{}, fmt.Errorf("sendTransaction: %w", err)
	}

	if err := c.awaitConfirmation(ctx, sig, lastValidBlockHeight); err != nil {
		submissionFailures.Inc()
		return sig, err
	}
	confirmationsTotal.Inc()
	return sig, nil
}

func (c *Client) awaitConfirmation(ctx context.Context, sig solana.Signature, lastValidBlockHeight uint64) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return fmt.Errorf("getSignatureStatuses %s: %w", sig, err)
		}
		if len(out.Value) > 0 && out.Value[0] != nil {
			st := out.Value[0]
			if st.Err != nil {
				return &RejectedError{Signature: sig, TxErr: st.Err}
			}
			if commitmentReached(st.ConfirmationStatus, c.commitment) {
				return nil
			}
		}
		// A status below the target commitment can belong to a fork that
		// is later dropped, so expiry applies until the commitment is
		// reached, not only while the signature is unknown.
		if lastValidBlockHeight > 0 {
			height, err := c.rpc.GetBlockHeight(ctx, c.commitment)
			if err != nil {
				return fmt.Errorf("getBlockHeight: %w", err)
			}
			if height > lastValidBlockHeight {
				return ErrStaleBlockhash
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func commitmentReached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case string(rpc.ConfirmationStatusProcessed):
			return 0
		case string(rpc.ConfirmationStatusConfirmed):
			return 1
		case string(rpc.ConfirmationStatusFinalized):
			return 2
		}
		return -1
	}
	return rank(string(status)) >= rank(string(want))
}
