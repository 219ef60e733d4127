package bootstrap

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/bootstrap"
	"github.com/0xabstracted/stader-liquid-staking/pkg/config"
	"github.com/0xabstracted/stader-liquid-staking/pkg/txbuild"
)

var (
	Cmd = cobra.Command{
		Use:   "bootstrap",
		Short: "Create all prerequisite accounts for a deployment",
		Long: "Creates the staderSOL and LP mints, the treasury and liquidity-leg " +
			"token accounts, and funds the reserve and sol-leg PDAs to their " +
			"rent-exempt minimum, all in one atomic transaction. Safe to re-run.",
		Run: run,
	}

	configPath string
	encodeOnly bool
)

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "stader.yaml", "Path to deployment config")
	Cmd.Flags().BoolVar(&encodeOnly, "encode-only", false, "Print the unsigned transaction as base58 instead of submitting")
}

func run(c *cobra.Command, args []string) {
	ctx := c.Context()

	rt, err := config.NewRuntime(configPath)
	if err != nil {
		klog.Exitf("load runtime: %v", err)
	}
	payer, err := rt.AdminKey()
	if err != nil {
		klog.Exitf("load admin keypair: %v", err)
	}
	staderSolMint, err := solana.PrivateKeyFromSolanaKeygenFile(rt.Cfg.StaderSolMintKeypair)
	if err != nil {
		klog.Exitf("load staderSOL mint keypair: %v", err)
	}
	lpMint, err := solana.PrivateKeyFromSolanaKeygenFile(rt.Cfg.LpMintKeypair)
	if err != nil {
		klog.Exitf("load LP mint keypair: %v", err)
	}

	orch := bootstrap.New(rt.Gateway, rt.Addrs)

	if encodeOnly {
		plan, err := orch.BuildPlan(ctx, payer.PublicKey(), staderSolMint, lpMint)
		if err != nil {
			klog.Exitf("plan bootstrap: %v", err)
		}
		if len(plan.Instructions) == 0 {
			klog.Info("nothing to bootstrap")
			return
		}
		tx, _, err := txbuild.NewBuilder(payer.PublicKey()).
			Append(plan.Instructions...).
			Build(ctx, rt.Gateway)
		if err != nil {
			klog.Exitf("assemble bootstrap transaction: %v", err)
		}
		encoded, err := txbuild.EncodeBase58(tx)
		if err != nil {
			klog.Exitf("encode bootstrap transaction: %v", err)
		}
		klog.Infof("unsigned bootstrap transaction:\n%s", encoded)
		return
	}

	if err := orch.Run(ctx, payer, staderSolMint, lpMint); err != nil {
		var partial *bootstrap.PartialError
		if errors.As(err, &partial) {
			klog.Exitf("bootstrap incomplete, re-run to finish; missing: %v (cause: %v)", partial.Missing, partial.Cause)
		}
		klog.Exitf("bootstrap failed: %v", err)
	}

	klog.Infof("deployment addresses:")
	klog.Infof("  state:                    %s", rt.Addrs.State)
	klog.Infof("  staderSolMint:            %s", rt.Addrs.StaderSolMint)
	klog.Infof("  lpMint:                   %s", rt.Addrs.LpMint)
	klog.Infof("  staderSolMintAuthority:   %s", rt.Addrs.StaderSolMintAuthority.Address)
	klog.Infof("  lpMintAuthority:          %s", rt.Addrs.LpMintAuthority.Address)
	klog.Infof("  reserve:                  %s", rt.Addrs.Reserve.Address)
	klog.Infof("  solLeg:                   %s", rt.Addrs.SolLeg.Address)
	klog.Infof("  staderSolLegAuthority:    %s", rt.Addrs.StaderSolLegAuthority.Address)
	klog.Infof("  staderSolLeg:             %s", rt.Addrs.StaderSolLeg)
	klog.Infof("  treasuryStaderSolAccount: %s", rt.Addrs.TreasuryStaderSolAccount)
	klog.Infof("  stakeDepositAuthority:    %s", rt.Addrs.StakeDepositAuthority.Address)
	klog.Infof("  stakeWithdrawAuthority:   %s", rt.Addrs.StakeWithdrawAuthority.Address)
}
