// Package txbuild assembles ordered instruction lists into transactions.
// The blockhash is fetched at Build time, immediately before signing; the
// on-chain runtime rejects transactions built against an expired blockhash,
// so callers must not hold a built transaction across long waits.
package txbuild

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway"
)

var ErrNoInstructions = errors.New("transaction has no instructions")

// MissingSignerError reports a required signer for which no key was
// supplied. Raised before any network call.
type MissingSignerError struct {
	Missing solana.PublicKey
}

func (e *MissingSignerError) Error() string {
	return fmt.Sprintf("no private key supplied for required signer %s", e.Missing)
}

// Builder accumulates instructions in execution order. Instructions within
// one transaction execute in append order and commit atomically.
type Builder struct {
	feePayer     solana.PublicKey
	instructions []solana.Instruction
}

func NewBuilder(feePayer solana.PublicKey) *Builder {
	return &Builder{feePayer: feePayer}
}

func (b *Builder) Append(ins ...solana.Instruction) *Builder {
	b.instructions = append(b.instructions, ins...)
	return b
}

func (b *Builder) Len() int { return len(b.instructions) }

// Build fetches a fresh blockhash and assembles the transaction. It returns
// the blockhash metadata so the caller can detect expiry during
// confirmation.
func (b *Builder) Build(ctx context.Context, gw gateway.Gateway) (*solana.Transaction, gateway.Blockhash, error) {
	if len(b.instructions) == 0 {
		return nil, gateway.Blockhash{}, ErrNoInstructions
	}
	bh, err := gw.LatestBlockhash(ctx)
	if err != nil {
		return nil, gateway.Blockhash{}, err
	}
	tx, err := solana.NewTransaction(
		b.instructions,
		bh.Hash,
		solana.TransactionPayer(b.feePayer),
	)
	if err != nil {
		return nil, gateway.Blockhash{}, fmt.Errorf("assemble transaction: %w", err)
	}
	return tx, bh, nil
}

// RequiredSigners lists the accounts the transaction message marks as
// signers, fee payer first.
func RequiredSigners(tx *solana.Transaction) []solana.PublicKey {
	n := int(tx.Message.Header.NumRequiredSignatures)
	return tx.Message.AccountKeys[:n]
}

// Sign signs the transaction with exactly the supplied keys after checking
// that every required signer is covered. A missing key fails
// deterministically before anything touches the network.
func Sign(tx *solana.Transaction, signers []solana.PrivateKey) error {
	byKey := make(map[solana.PublicKey]*solana.PrivateKey, len(signers))
	for i := range signers {
		byKey[signers[i].PublicKey()] = &signers[i]
	}
	for _, req := range RequiredSigners(tx) {
		if _, ok := byKey[req]; !ok {
			return &MissingSignerError{Missing: req}
		}
	}
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return byKey[key]
	})
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	return nil
}

// PartialSign signs with whatever subset of the required signers is
// available, for out-of-band multisig handoff.
func PartialSign(tx *solana.Transaction, signers []solana.PrivateKey) error {
	byKey := make(map[solana.PublicKey]*solana.PrivateKey, len(signers))
	for i := range signers {
		byKey[signers[i].PublicKey()] = &signers[i]
	}
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		return byKey[key]
	})
	if err != nil {
		return fmt.Errorf("partial-sign transaction: %w", err)
	}
	return nil
}

// EncodeBase58 serializes the transaction, signed or not, into the textual
// exchange form used for offline co-signing. Signature verification is
// deliberately skipped: unsigned and partially signed transactions must be
// encodable.
func EncodeBase58(tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}
	return base58.Encode(raw), nil
}
