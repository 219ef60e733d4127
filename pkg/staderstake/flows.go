package staderstake

import (
	"context"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway"
)

// Flow is an ordered instruction list plus the ephemeral keypairs generated
// while composing it. The caller signs with its own identity plus every
// ephemeral signer.
type Flow struct {
	Instructions     []solana.Instruction
	EphemeralSigners []solana.PrivateKey

	// TicketState is set by flows that touch the delayed-unstake
	// lifecycle.
	TicketState TicketState
	// Ticket is the ticket account a ticket flow created or consumed.
	Ticket solana.PublicKey
}

// DepositFlow composes the user deposit: when the user's staderSOL token
// account does not exist yet, a create-associated-token-account instruction
// precedes the deposit in the same atomic transaction.
func DepositFlow(
	ctx context.Context,
	gw gateway.Gateway,
	addrs *derive.ProtocolAddresses,
	user solana.PublicKey,
	lamports uint64,
) (*Flow, error) {
	mintExists, err := gw.AccountExists(ctx, addrs.StaderSolMint)
	if err != nil {
		return nil, err
	}
	if !mintExists {
		return nil, &PrerequisiteError{Account: "staderSolMint", Address: addrs.StaderSolMint}
	}

	userTokenAccount, err := derive.AssociatedTokenAccount(user, addrs.StaderSolMint)
	if err != nil {
		return nil, err
	}

	flow := &Flow{}

	exists, err := gw.AccountExists(ctx, userTokenAccount)
	if err != nil {
		return nil, err
	}
	if !exists {
		flow.Instructions = append(flow.Instructions,
			associatedtokenaccount.NewCreateInstruction(user, user, addrs.StaderSolMint).Build())
	}

	depositIx, err := Deposit(addrs, user, userTokenAccount, lamports)
	if err != nil {
		return nil, err
	}
	flow.Instructions = append(flow.Instructions, depositIx)
	return flow, nil
}

// OrderUnstakeFlow composes the delayed-unstake request: one new ticket
// keypair, a system create-account making the ticket rent-exempt and
// program-owned, then the order-unstake burning exactly staderSolAmount
// from the user's token account. The resulting ticket is Requested;
// claimability is decided by the program after its cool-down.
func OrderUnstakeFlow(
	ctx context.Context,
	gw gateway.Gateway,
	addrs *derive.ProtocolAddresses,
	user solana.PublicKey,
	staderSolAmount uint64,
) (*Flow, error) {
	userTokenAccount, err := derive.AssociatedTokenAccount(user, addrs.StaderSolMint)
	if err != nil {
		return nil, err
	}
	exists, err := gw.AccountExists(ctx, userTokenAccount)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &PrerequisiteError{Account: "userStaderSolTokenAccount", Address: userTokenAccount}
	}

	rent, err := gw.MinimumBalanceForRentExemption(ctx, TicketAccountSize)
	if err != nil {
		return nil, err
	}

	ticket := solana.NewWallet()

	createTicket := system.NewCreateAccountInstruction(
		rent,
		TicketAccountSize,
		addrs.ProgramID,
		user,
		ticket.PublicKey(),
	).Build()

	orderIx, err := OrderUnstake(addrs, userTokenAccount, user, ticket.PublicKey(), staderSolAmount)
	if err != nil {
		return nil, err
	}

	return &Flow{
		Instructions:     []solana.Instruction{createTicket, orderIx},
		EphemeralSigners: []solana.PrivateKey{ticket.PrivateKey},
		TicketState:      TicketRequested,
		Ticket:           ticket.PublicKey(),
	}, nil
}

// ClaimFlow consumes a cooled-down ticket. The program is the arbiter of
// claimability; an early claim surfaces the on-chain rejection unchanged.
func ClaimFlow(
	addrs *derive.ProtocolAddresses,
	ticketAccount solana.PublicKey,
	beneficiary solana.PublicKey,
) (*Flow, error) {
	claimIx, err := Claim(addrs, ticketAccount, beneficiary)
	if err != nil {
		return nil, err
	}
	return &Flow{
		Instructions: []solana.Instruction{claimIx},
		TicketState:  TicketClaimed,
		Ticket:       ticketAccount,
	}, nil
}

// WithdrawStakeAccountFlow composes the stake-account withdrawal with a
// freshly generated split-stake keypair that co-signs the transaction.
func WithdrawStakeAccountFlow(
	addrs *derive.ProtocolAddresses,
	stakeList solana.PublicKey,
	validatorList solana.PublicKey,
	user solana.PublicKey,
	stakeAccount solana.PublicKey,
	stakeIndex, stakeCount uint32,
	validatorIndex, validatorCount uint32,
	staderSolAmount uint64,
) (*Flow, error) {
	burnFrom, err := derive.AssociatedTokenAccount(user, addrs.StaderSolMint)
	if err != nil {
		return nil, err
	}

	splitStake := solana.NewWallet()

	ix, err := WithdrawStakeAccount(addrs, stakeList, validatorList, burnFrom, user, WithdrawStakeAccountParams{
		StakeIndex:      stakeIndex,
		StakeCount:      stakeCount,
		ValidatorIndex:  validatorIndex,
		ValidatorCount:  validatorCount,
		StaderSolAmount: staderSolAmount,
		Beneficiary:     user,
		StakeAccount:    stakeAccount,
		SplitStake:      splitStake.PublicKey(),
	})
	if err != nil {
		return nil, err
	}

	return &Flow{
		Instructions:     []solana.Instruction{ix},
		EphemeralSigners: []solana.PrivateKey{splitStake.PrivateKey},
	}, nil
}

// DepositStakeAccountFlow composes deposit of an existing stake account,
// creating the user's receipt token account first when missing.
func DepositStakeAccountFlow(
	ctx context.Context,
	gw gateway.Gateway,
	addrs *derive.ProtocolAddresses,
	stakeList solana.PublicKey,
	validatorList solana.PublicKey,
	user solana.PublicKey,
	stakeAccount solana.PublicKey,
	validatorVote solana.PublicKey,
	validatorIndex uint32,
	validatorCount uint32,
) (*Flow, error) {
	userTokenAccount, err := derive.AssociatedTokenAccount(user, addrs.StaderSolMint)
	if err != nil {
		return nil, err
	}

	flow := &Flow{}

	exists, err := gw.AccountExists(ctx, userTokenAccount)
	if err != nil {
		return nil, err
	}
	if !exists {
		flow.Instructions = append(flow.Instructions,
			associatedtokenaccount.NewCreateInstruction(user, user, addrs.StaderSolMint).Build())
	}

	ix, err := DepositStakeAccount(addrs, stakeList, validatorList, stakeAccount, user, user, validatorVote, userTokenAccount, validatorIndex, validatorCount)
	if err != nil {
		return nil, err
	}
	flow.Instructions = append(flow.Instructions, ix)
	return flow, nil
}
