package staderstake

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway/gatewaytest"
)

// A user without a receipt token account gets exactly
// (create-associated-token-account, deposit), in that order, in one unit.
func TestDepositFlow_CreatesMissingTokenAccount(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()

	gw := gatewaytest.New()
	gw.Accounts[addrs.StaderSolMint] = []byte{1}

	flow, err := DepositFlow(context.Background(), gw, addrs, user, 10_000_000)
	require.NoError(t, err)
	require.Len(t, flow.Instructions, 2)
	assert.Empty(t, flow.EphemeralSigners)

	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, flow.Instructions[0].ProgramID())
	assert.Equal(t, addrs.ProgramID, flow.Instructions[1].ProgramID())

	// The deposit instruction carries the derived reserve and sol-leg.
	keys := accountKeys(flow.Instructions[1])
	assert.Contains(t, keys, addrs.Reserve.Address)
	assert.Contains(t, keys, addrs.SolLeg.Address)
}

func TestDepositFlow_ExistingTokenAccount(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	userAta, err := derive.AssociatedTokenAccount(user, addrs.StaderSolMint)
	require.NoError(t, err)

	gw := gatewaytest.New()
	gw.Accounts[addrs.StaderSolMint] = []byte{1}
	gw.Accounts[userAta] = []byte{1}

	flow, err := DepositFlow(context.Background(), gw, addrs, user, 10_000_000)
	require.NoError(t, err)
	require.Len(t, flow.Instructions, 1)
	assert.Equal(t, addrs.ProgramID, flow.Instructions[0].ProgramID())
}

func TestDepositFlow_MissingMint(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()

	_, err := DepositFlow(context.Background(), gatewaytest.New(), addrs, user, 10_000_000)
	var prereq *PrerequisiteError
	require.ErrorAs(t, err, &prereq)
	assert.Equal(t, "staderSolMint", prereq.Account)
	assert.Equal(t, addrs.StaderSolMint, prereq.Address)
}

// Ordering an unstake generates exactly one ticket keypair, creates the
// ticket rent-exempt and program-owned, and burns exactly the requested
// amount. The flow leaves the ticket Requested; claimability is the
// program's call.
func TestOrderUnstakeFlow(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	userAta, err := derive.AssociatedTokenAccount(user, addrs.StaderSolMint)
	require.NoError(t, err)

	gw := gatewaytest.New()
	gw.Accounts[userAta] = []byte{1}
	gw.RentExempt[TicketAccountSize] = 1_503_360

	flow, err := OrderUnstakeFlow(context.Background(), gw, addrs, user, 5_000_000)
	require.NoError(t, err)

	require.Len(t, flow.Instructions, 2)
	require.Len(t, flow.EphemeralSigners, 1)
	assert.Equal(t, TicketRequested, flow.TicketState)
	assert.Equal(t, flow.EphemeralSigners[0].PublicKey(), flow.Ticket)

	// create-account precedes order-unstake.
	assert.Equal(t, solana.SystemProgramID, flow.Instructions[0].ProgramID())
	assert.Equal(t, addrs.ProgramID, flow.Instructions[1].ProgramID())
	assert.Contains(t, accountKeys(flow.Instructions[1]), flow.Ticket)

	data, err := flow.Instructions[1].Data()
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), binary.LittleEndian.Uint64(data[8:16]))
}

func TestOrderUnstakeFlow_MissingTokenAccount(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()

	_, err := OrderUnstakeFlow(context.Background(), gatewaytest.New(), addrs, user, 5_000_000)
	var prereq *PrerequisiteError
	require.ErrorAs(t, err, &prereq)
	assert.Equal(t, "userStaderSolTokenAccount", prereq.Account)
}

func TestClaimFlow(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	ticket := solana.NewWallet().PublicKey()

	flow, err := ClaimFlow(addrs, ticket, user)
	require.NoError(t, err)
	require.Len(t, flow.Instructions, 1)
	assert.Equal(t, TicketClaimed, flow.TicketState)
	assert.Equal(t, ticket, flow.Ticket)
}

func TestWithdrawStakeAccountFlow_GeneratesSplitKeypair(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	stakeAccount := solana.NewWallet().PublicKey()
	list := solana.NewWallet().PublicKey()

	flow, err := WithdrawStakeAccountFlow(addrs, list, list, user, stakeAccount, 0, 1, 0, 1, 5_000_000)
	require.NoError(t, err)
	require.Len(t, flow.Instructions, 1)
	require.Len(t, flow.EphemeralSigners, 1)
	assert.Contains(t, accountKeys(flow.Instructions[0]), flow.EphemeralSigners[0].PublicKey())
}
