package admin

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/bootstrap"
	"github.com/0xabstracted/stader-liquid-staking/pkg/staderstake"
)

var (
	initializeCmd = cobra.Command{
		Use:   "initialize",
		Short: "Create the state accounts and initialize the protocol",
		Run:   runInitialize,
	}

	stateKeypairPath         string
	stakeListKeypairPath     string
	validatorListKeypairPath string
	operationalSolAccount    string

	stateSpace uint64
	listSpace  uint64

	minStake           uint64
	rewardsFeeBps      uint32
	lpLiquidityTarget  uint64
	lpMaxFeeBps        uint32
	lpMinFeeBps        uint32
	lpTreasuryCutBps   uint32
	slotsForStakeDelta uint64
)

func init() {
	f := initializeCmd.Flags()
	f.StringVar(&stateKeypairPath, "state-keypair", "", "Keypair file for the state account")
	f.StringVar(&stakeListKeypairPath, "stake-list-keypair", "", "Keypair file for the stake list account")
	f.StringVar(&validatorListKeypairPath, "validator-list-keypair", "", "Keypair file for the validator list account")
	f.StringVar(&operationalSolAccount, "operational-sol-account", "", "Operational SOL account address")
	f.Uint64Var(&stateSpace, "state-space", 8*1024, "Space to allocate for the state account")
	f.Uint64Var(&listSpace, "list-space", 64*1024, "Space to allocate for each list account")
	f.Uint64Var(&minStake, "min-stake", 10_000_000, "Minimum stake in lamports")
	f.Uint32Var(&rewardsFeeBps, "rewards-fee-bps", 0, "Rewards fee in basis points")
	f.Uint64Var(&lpLiquidityTarget, "lp-liquidity-target", 50_000_000_000, "Liquidity pool target in lamports")
	f.Uint32Var(&lpMaxFeeBps, "lp-max-fee-bps", 10, "Max liquidity pool fee in basis points")
	f.Uint32Var(&lpMinFeeBps, "lp-min-fee-bps", 1, "Min liquidity pool fee in basis points")
	f.Uint32Var(&lpTreasuryCutBps, "lp-treasury-cut-bps", 1, "Treasury cut in basis points")
	f.Uint64Var(&slotsForStakeDelta, "slots-for-stake-delta", 3000, "Slots before epoch end for the stake delta window")
}

func runInitialize(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, adminKey := loadRuntime()

	stateKey := mustKeypair("state", stateKeypairPath, rt.Addrs.State)
	stakeListKey := mustKeypair("stake-list", stakeListKeypairPath, rt.StakeList)
	validatorListKey := mustKeypair("validator-list", validatorListKeypairPath, rt.ValidatorList)

	opSol := rt.OperationalSolAccount
	if operationalSolAccount != "" {
		var err error
		opSol, err = solana.PublicKeyFromBase58(operationalSolAccount)
		if err != nil {
			klog.Exitf("bad operational SOL account: %v", err)
		}
	}

	// The three large program-owned accounts are created in the same
	// atomic unit, immediately before initialize consumes them.
	pre, err := bootstrap.StateAccountInstructions(ctx, rt.Gateway, rt.Addrs.ProgramID, adminKey.PublicKey(), []bootstrap.StateAccountSpec{
		{Account: rt.Addrs.State, Space: stateSpace},
		{Account: rt.StakeList, Space: listSpace},
		{Account: rt.ValidatorList, Space: listSpace},
	})
	if err != nil {
		klog.Exitf("build state account instructions: %v", err)
	}

	initIx, err := staderstake.Initialize(rt.Addrs, staderstake.InitializeAccounts{
		StakeList:             rt.StakeList,
		ValidatorList:         rt.ValidatorList,
		OperationalSolAccount: opSol,
	}, staderstake.InitializeData{
		AdminAuthority:            adminKey.PublicKey(),
		ValidatorManagerAuthority: adminKey.PublicKey(),
		MinStake:                  minStake,
		RewardsFee:                staderstake.Fee{BasisPoints: rewardsFeeBps},
		LiqPool: staderstake.LiqPoolInitializeData{
			LpLiquidityTarget: lpLiquidityTarget,
			LpMaxFee:          staderstake.Fee{BasisPoints: lpMaxFeeBps},
			LpMinFee:          staderstake.Fee{BasisPoints: lpMinFeeBps},
			LpTreasuryCut:     staderstake.Fee{BasisPoints: lpTreasuryCutBps},
		},
		AdditionalStakeRecordSpace:     3,
		AdditionalValidatorRecordSpace: 3,
		SlotsForStakeDelta:             slotsForStakeDelta,
		PauseAuthority:                 adminKey.PublicKey(),
	})
	if err != nil {
		klog.Exitf("build initialize: %v", err)
	}

	submit(ctx, rt, adminKey,
		append(pre, initIx),
		[]solana.PrivateKey{stateKey, stakeListKey, validatorListKey},
	)
}

func mustKeypair(name, path string, expected solana.PublicKey) solana.PrivateKey {
	if path == "" {
		klog.Exitf("missing --%s-keypair", name)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		klog.Exitf("load %s keypair: %v", name, err)
	}
	if !expected.IsZero() && !key.PublicKey().Equals(expected) {
		klog.Exitf("%s keypair %s does not match configured address %s", name, key.PublicKey(), expected)
	}
	return key
}
