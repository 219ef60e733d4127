// Package gatewaytest provides an in-memory Gateway for tests.
package gatewaytest

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway"
)

// Fake is a deterministic in-memory ledger view. The zero value has no
// accounts and rejects nothing.
type Fake struct {
	// Accounts maps existing account addresses to their raw data.
	Accounts map[solana.PublicKey][]byte
	// Balances maps addresses to lamport balances.
	Balances map[solana.PublicKey]uint64
	// RentExempt maps data sizes to rent-exempt minimums.
	RentExempt map[uint64]uint64

	Hash      solana.Hash
	LastValid uint64

	SubmitErr error
	SubmitSig solana.Signature
	Submitted []*solana.Transaction

	// SubmitFunc, when set, runs on every submission before SubmitErr is
	// considered. Lets tests mutate ledger state mid-run, e.g. to model a
	// concurrent bootstrapper landing first.
	SubmitFunc func(tx *solana.Transaction)
}

var _ gateway.Gateway = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Accounts:   make(map[solana.PublicKey][]byte),
		Balances:   make(map[solana.PublicKey]uint64),
		RentExempt: make(map[uint64]uint64),
		LastValid:  1000,
	}
}

func (f *Fake) Balance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	return f.Balances[addr], nil
}

func (f *Fake) AccountExists(ctx context.Context, addr solana.PublicKey) (bool, error) {
	_, ok := f.Accounts[addr]
	return ok, nil
}

func (f *Fake) AccountInfo(ctx context.Context, addr solana.PublicKey) (*rpc.Account, error) {
	data, ok := f.Accounts[addr]
	if !ok {
		return nil, nil
	}
	return &rpc.Account{
		Lamports: f.Balances[addr],
		Data:     rpc.DataBytesOrJSONFromBytes(data),
	}, nil
}

func (f *Fake) LatestBlockhash(ctx context.Context) (gateway.Blockhash, error) {
	return gateway.Blockhash{Hash: f.Hash, LastValidBlockHeight: f.LastValid}, nil
}

func (f *Fake) MinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	return f.RentExempt[dataSize], nil
}

func (f *Fake) Submit(ctx context.Context, tx *solana.Transaction, lastValidBlockHeight uint64, skipPreflight bool) (solana.Signature, error) {
	f.Submitted = append(f.Submitted, tx)
	if f.SubmitFunc != nil {
		f.SubmitFunc(tx)
	}
	if f.SubmitErr != nil {
		return solana.Signature{}, f.SubmitErr
	}
	return f.SubmitSig, nil
}
