// Package user holds the user-side commands: depositing SOL or stake
// accounts, ordering delayed unstakes, claiming tickets and withdrawing
// stake accounts.
package user

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/config"
	"github.com/0xabstracted/stader-liquid-staking/pkg/execute"
	"github.com/0xabstracted/stader-liquid-staking/pkg/staderstake"
	"github.com/0xabstracted/stader-liquid-staking/pkg/txbuild"
)

var (
	Cmd = cobra.Command{
		Use:   "user",
		Short: "User-side protocol operations",
	}

	configPath  string
	keypairPath string
)

func init() {
	Cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "stader.yaml", "Path to deployment config")
	Cmd.PersistentFlags().StringVarP(&keypairPath, "keypair", "k", "", "User keypair file (defaults to the admin keypair)")

	Cmd.AddCommand(
		&depositCmd,
		&depositStakeCmd,
		&orderUnstakeCmd,
		&claimCmd,
		&withdrawStakeCmd,
	)
}

func loadRuntime() (*config.Runtime, solana.PrivateKey) {
	rt, err := config.NewRuntime(configPath)
	if err != nil {
		klog.Exitf("load runtime: %v", err)
	}
	if keypairPath != "" {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
		if err != nil {
			klog.Exitf("load user keypair: %v", err)
		}
		return rt, key
	}
	key, err := rt.AdminKey()
	if err != nil {
		klog.Exitf("load admin keypair: %v", err)
	}
	return rt, key
}

// submitFlow assembles, signs and executes a composed flow. Ephemeral
// keypairs generated by the flow (tickets, split stakes) co-sign.
func submitFlow(ctx context.Context, rt *config.Runtime, userKey solana.PrivateKey, flow *staderstake.Flow) solana.Signature {
	tx, bh, err := txbuild.NewBuilder(userKey.PublicKey()).
		Append(flow.Instructions...).
		Build(ctx, rt.Gateway)
	if err != nil {
		klog.Exitf("assemble transaction: %v", err)
	}

	ctl := execute.NewController(rt.Gateway, rt.Addrs.State)
	signers := append([]solana.PrivateKey{userKey}, flow.EphemeralSigners...)
	sig, err := ctl.Run(ctx, tx, bh, signers, execute.Options{SkipPreflight: true})
	if err != nil {
		var sub *execute.SubmissionError
		if errors.As(err, &sub) && sub.Diagnostic != nil {
			klog.Errorf("program state at failure: %s", hex.EncodeToString(sub.Diagnostic))
		}
		if execute.Stale(err) {
			klog.Exitf("blockhash expired before confirmation; re-run to rebuild and resubmit: %v", err)
		}
		klog.Exitf("transaction failed: %v", err)
	}
	return sig
}
