package user

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/staderstake"
)

var (
	depositCmd = cobra.Command{
		Use:   "deposit",
		Short: "Deposit SOL for staderSOL",
		Run:   runDeposit,
	}

	depositLamports uint64
)

func init() {
	depositCmd.Flags().Uint64Var(&depositLamports, "amount", 0, "Deposit amount in lamports")
	depositCmd.MarkFlagRequired("amount")
}

func runDeposit(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, userKey := loadRuntime()

	flow, err := staderstake.DepositFlow(ctx, rt.Gateway, rt.Addrs, userKey.PublicKey(), depositLamports)
	if err != nil {
		klog.Exitf("compose deposit: %v", err)
	}

	sig := submitFlow(ctx, rt, userKey, flow)
	klog.Infof("deposit confirmed: %s", sig)
}

var (
	depositStakeCmd = cobra.Command{
		Use:   "deposit-stake",
		Short: "Deposit an existing stake account for staderSOL",
		Run:   runDepositStake,
	}

	dsStakeAccount   string
	dsVoteAccount    string
	dsValidatorIndex uint32
	dsValidatorCount uint32
)

func init() {
	f := depositStakeCmd.Flags()
	f.StringVar(&dsStakeAccount, "stake-account", "", "Stake account to deposit")
	f.StringVar(&dsVoteAccount, "vote", "", "Vote account the stake is delegated to")
	f.Uint32Var(&dsValidatorIndex, "validator-index", 0, "Index of the validator in the validator list")
	f.Uint32Var(&dsValidatorCount, "validator-count", 0, "Number of validators in the list")
	depositStakeCmd.MarkFlagRequired("stake-account")
	depositStakeCmd.MarkFlagRequired("vote")
	depositStakeCmd.MarkFlagRequired("validator-count")
}

func runDepositStake(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, userKey := loadRuntime()

	stakeAccount, err := solana.PublicKeyFromBase58(dsStakeAccount)
	if err != nil {
		klog.Exitf("bad stake account: %v", err)
	}
	vote, err := solana.PublicKeyFromBase58(dsVoteAccount)
	if err != nil {
		klog.Exitf("bad vote account: %v", err)
	}

	flow, err := staderstake.DepositStakeAccountFlow(
		ctx, rt.Gateway, rt.Addrs,
		rt.StakeList, rt.ValidatorList,
		userKey.PublicKey(), stakeAccount, vote,
		dsValidatorIndex, dsValidatorCount,
	)
	if err != nil {
		klog.Exitf("compose deposit-stake: %v", err)
	}

	sig := submitFlow(ctx, rt, userKey, flow)
	klog.Infof("deposit-stake confirmed: %s", sig)
}
