package admin

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/staderstake"
)

var (
	addValidatorCmd = cobra.Command{
		Use:   "add-validator",
		Short: "Register a validator vote account",
		Long: "Registers a validator with the protocol. The duplication flag " +
			"address is derived from the (state, vote account) pair, so adding " +
			"the same vote account twice is rejected by the program.",
		Run: runAddValidator,
	}

	voteAccount    string
	validatorScore uint32
)

func init() {
	f := addValidatorCmd.Flags()
	f.StringVar(&voteAccount, "vote", "", "Validator vote account address")
	f.Uint32Var(&validatorScore, "score", 0, "Validator score")
	addValidatorCmd.MarkFlagRequired("vote")
}

func runAddValidator(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, adminKey := loadRuntime()

	vote, err := solana.PublicKeyFromBase58(voteAccount)
	if err != nil {
		klog.Exitf("bad vote account: %v", err)
	}

	ix, err := staderstake.AddValidator(
		rt.Addrs,
		rt.ValidatorList,
		adminKey.PublicKey(),
		adminKey.PublicKey(),
		vote,
		validatorScore,
	)
	if err != nil {
		klog.Exitf("build add-validator: %v", err)
	}

	submit(ctx, rt, adminKey, []solana.Instruction{ix}, nil)
}
