package admin

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/staderstake"
)

var (
	configureCmd = cobra.Command{
		Use:   "configure",
		Short: "Update protocol limits and fees",
		Long: "Updates only the fields whose flags were set; everything else " +
			"keeps its on-chain value.",
		Run: runConfigure,
	}

	cfgRewardsFeeBps        uint32
	cfgSlotsForStakeDelta   uint64
	cfgMinStake             uint64
	cfgMinDeposit           uint64
	cfgMinWithdraw          uint64
	cfgStakingSolCap        uint64
	cfgLiquiditySolCap      uint64
	cfgWithdrawStakeEnabled bool
	cfgDelayedUnstakeFee    uint32
	cfgWithdrawStakeFee     uint32
	cfgMaxStakeMovedBps     uint32
)

func init() {
	f := configureCmd.Flags()
	f.Uint32Var(&cfgRewardsFeeBps, "rewards-fee-bps", 0, "Rewards fee in basis points")
	f.Uint64Var(&cfgSlotsForStakeDelta, "slots-for-stake-delta", 0, "Slots before epoch end for the stake delta window")
	f.Uint64Var(&cfgMinStake, "min-stake", 0, "Minimum stake in lamports")
	f.Uint64Var(&cfgMinDeposit, "min-deposit", 0, "Minimum deposit in lamports")
	f.Uint64Var(&cfgMinWithdraw, "min-withdraw", 0, "Minimum withdrawal in lamports")
	f.Uint64Var(&cfgStakingSolCap, "staking-sol-cap", 0, "Staking SOL cap in lamports")
	f.Uint64Var(&cfgLiquiditySolCap, "liquidity-sol-cap", 0, "Liquidity SOL cap in lamports")
	f.BoolVar(&cfgWithdrawStakeEnabled, "withdraw-stake-account-enabled", false, "Allow withdraw-stake-account")
	f.Uint32Var(&cfgDelayedUnstakeFee, "delayed-unstake-fee-bp-cents", 0, "Delayed unstake fee in hundredths of a basis point")
	f.Uint32Var(&cfgWithdrawStakeFee, "withdraw-stake-fee-bp-cents", 0, "Withdraw-stake-account fee in hundredths of a basis point")
	f.Uint32Var(&cfgMaxStakeMovedBps, "max-stake-moved-bps", 0, "Max stake moved per epoch in basis points")
}

func runConfigure(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, adminKey := loadRuntime()

	var params staderstake.ConfigStaderParams
	changed := false
	set := func(flag string, apply func()) {
		if c.Flags().Changed(flag) {
			apply()
			changed = true
		}
	}
	set("rewards-fee-bps", func() { params.RewardsFee = &staderstake.Fee{BasisPoints: cfgRewardsFeeBps} })
	set("slots-for-stake-delta", func() { params.SlotsForStakeDelta = &cfgSlotsForStakeDelta })
	set("min-stake", func() { params.MinStake = &cfgMinStake })
	set("min-deposit", func() { params.MinDeposit = &cfgMinDeposit })
	set("min-withdraw", func() { params.MinWithdraw = &cfgMinWithdraw })
	set("staking-sol-cap", func() { params.StakingSolCap = &cfgStakingSolCap })
	set("liquidity-sol-cap", func() { params.LiquiditySolCap = &cfgLiquiditySolCap })
	set("withdraw-stake-account-enabled", func() { params.WithdrawStakeAccountEnabled = &cfgWithdrawStakeEnabled })
	set("delayed-unstake-fee-bp-cents", func() { params.DelayedUnstakeFee = &staderstake.FeeCents{BpCents: cfgDelayedUnstakeFee} })
	set("withdraw-stake-fee-bp-cents", func() { params.WithdrawStakeAccountFee = &staderstake.FeeCents{BpCents: cfgWithdrawStakeFee} })
	set("max-stake-moved-bps", func() { params.MaxStakeMovedPerEpoch = &staderstake.Fee{BasisPoints: cfgMaxStakeMovedBps} })

	if !changed {
		klog.Exit("no configuration flags set, nothing to do")
	}

	ix, err := staderstake.ConfigStader(rt.Addrs, adminKey.PublicKey(), params)
	if err != nil {
		klog.Exitf("build configure: %v", err)
	}

	submit(ctx, rt, adminKey, []solana.Instruction{ix}, nil)
}
