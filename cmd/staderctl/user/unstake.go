package user

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/staderstake"
)

var (
	orderUnstakeCmd = cobra.Command{
		Use:   "order-unstake",
		Short: "Burn staderSOL and create a delayed-unstake ticket",
		Long: "Burns the given staderSOL amount and creates a ticket that " +
			"becomes claimable after the program's cool-down period.",
		Run: runOrderUnstake,
	}

	unstakeAmount uint64
)

func init() {
	orderUnstakeCmd.Flags().Uint64Var(&unstakeAmount, "amount", 0, "staderSOL amount to unstake")
	orderUnstakeCmd.MarkFlagRequired("amount")
}

func runOrderUnstake(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, userKey := loadRuntime()

	flow, err := staderstake.OrderUnstakeFlow(ctx, rt.Gateway, rt.Addrs, userKey.PublicKey(), unstakeAmount)
	if err != nil {
		klog.Exitf("compose order-unstake: %v", err)
	}

	sig := submitFlow(ctx, rt, userKey, flow)
	klog.Infof("order-unstake confirmed: %s", sig)
	klog.Infof("ticket %s is %s; claim it after the cool-down elapses", flow.Ticket, flow.TicketState)
}

var (
	claimCmd = cobra.Command{
		Use:   "claim",
		Short: "Claim a cooled-down delayed-unstake ticket",
		Run:   runClaim,
	}

	claimTicket string
)

func init() {
	claimCmd.Flags().StringVar(&claimTicket, "ticket", "", "Ticket account to claim")
	claimCmd.MarkFlagRequired("ticket")
}

func runClaim(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, userKey := loadRuntime()

	ticket, err := solana.PublicKeyFromBase58(claimTicket)
	if err != nil {
		klog.Exitf("bad ticket account: %v", err)
	}

	flow, err := staderstake.ClaimFlow(rt.Addrs, ticket, userKey.PublicKey())
	if err != nil {
		klog.Exitf("compose claim: %v", err)
	}

	// Claiming before the cool-down elapsed is rejected on-chain; that
	// rejection is surfaced with the state snapshot, not retried.
	sig := submitFlow(ctx, rt, userKey, flow)
	klog.Infof("claim confirmed: %s, ticket %s is %s", sig, flow.Ticket, flow.TicketState)
}

var (
	withdrawStakeCmd = cobra.Command{
		Use:   "withdraw-stake",
		Short: "Exchange staderSOL for a split stake account",
		Run:   runWithdrawStake,
	}

	wsStakeAccount   string
	wsStakeIndex     uint32
	wsStakeCount     uint32
	wsValidatorIndex uint32
	wsValidatorCount uint32
	wsAmount         uint64
)

func init() {
	f := withdrawStakeCmd.Flags()
	f.StringVar(&wsStakeAccount, "stake-account", "", "Protocol stake account to split from")
	f.Uint32Var(&wsStakeIndex, "stake-index", 0, "Index of the stake account in the stake list")
	f.Uint32Var(&wsStakeCount, "stake-count", 0, "Number of stake accounts in the list")
	f.Uint32Var(&wsValidatorIndex, "validator-index", 0, "Index of the validator in the validator list")
	f.Uint32Var(&wsValidatorCount, "validator-count", 0, "Number of validators in the list")
	f.Uint64Var(&wsAmount, "amount", 0, "staderSOL amount to burn")
	withdrawStakeCmd.MarkFlagRequired("stake-account")
	withdrawStakeCmd.MarkFlagRequired("stake-count")
	withdrawStakeCmd.MarkFlagRequired("validator-count")
	withdrawStakeCmd.MarkFlagRequired("amount")
}

func runWithdrawStake(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, userKey := loadRuntime()

	stakeAccount, err := solana.PublicKeyFromBase58(wsStakeAccount)
	if err != nil {
		klog.Exitf("bad stake account: %v", err)
	}

	flow, err := staderstake.WithdrawStakeAccountFlow(
		rt.Addrs, rt.StakeList, rt.ValidatorList,
		userKey.PublicKey(), stakeAccount,
		wsStakeIndex, wsStakeCount,
		wsValidatorIndex, wsValidatorCount,
		wsAmount,
	)
	if err != nil {
		klog.Exitf("compose withdraw-stake: %v", err)
	}

	sig := submitFlow(ctx, rt, userKey, flow)
	klog.Infof("withdraw-stake confirmed: %s", sig)
}
