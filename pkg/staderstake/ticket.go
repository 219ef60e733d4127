package staderstake

import (
	"github.com/gagliardetto/solana-go"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
)

// TicketState tracks a delayed-unstake ticket through its one-shot
// lifecycle. This client only emits Requested and Claimed; CoolingDown and
// Claimable are observed from on-chain state, never tracked locally.
type TicketState string

const (
	TicketRequested   TicketState = "requested"
	TicketCoolingDown TicketState = "cooling-down"
	TicketClaimable   TicketState = "claimable"
	TicketClaimed     TicketState = "claimed"
)

const ixClaim = "claim"

// Claim builds the instruction consuming a cooled-down ticket and paying
// its lamports to the beneficiary. Claiming before the cool-down elapsed is
// rejected by the program; that rejection is surfaced, not suppressed.
func Claim(
	addrs *derive.ProtocolAddresses,
	ticketAccount solana.PublicKey,
	transferSolTo solana.PublicKey,
) (solana.Instruction, error) {
	if ticketAccount.IsZero() {
		return nil, &ParamError{Field: "ticketAccount", Reason: "must not be the zero address"}
	}
	if transferSolTo.IsZero() {
		return nil, &ParamError{Field: "transferSolTo", Reason: "must not be the zero address"}
	}

	payload, err := anchorData(ixClaim, nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(addrs.State).WRITE(),
			solana.Meta(addrs.Reserve.Address).WRITE(),
			solana.Meta(ticketAccount).WRITE(),
			solana.Meta(transferSolTo).WRITE(),
			solana.Meta(solana.SysVarClockPubkey),
			solana.Meta(solana.SystemProgramID),
		},
		payload,
	), nil
}
