// Package admin holds the operator-side commands: one-time state
// initialization, reconfiguration, validator registration and token
// metadata updates.
package admin

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/config"
	"github.com/0xabstracted/stader-liquid-staking/pkg/execute"
	"github.com/0xabstracted/stader-liquid-staking/pkg/txbuild"
)

var (
	Cmd = cobra.Command{
		Use:   "admin",
		Short: "Administrative protocol operations",
	}

	configPath string
	encodeOnly bool
)

func init() {
	Cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "stader.yaml", "Path to deployment config")
	Cmd.PersistentFlags().BoolVar(&encodeOnly, "encode-only", false, "Print the unsigned transaction as base58 instead of submitting")

	Cmd.AddCommand(
		&initializeCmd,
		&configureCmd,
		&addValidatorCmd,
		&updateMetadataCmd,
	)
}

// submit assembles, signs and executes an instruction list, or prints the
// unsigned base58 form under --encode-only. On failure both the raw error
// and the diagnostic state snapshot are reported for manual reconciliation.
func submit(
	ctx context.Context,
	rt *config.Runtime,
	payer solana.PrivateKey,
	instructions []solana.Instruction,
	extraSigners []solana.PrivateKey,
) {
	tx, bh, err := txbuild.NewBuilder(payer.PublicKey()).
		Append(instructions...).
		Build(ctx, rt.Gateway)
	if err != nil {
		klog.Exitf("assemble transaction: %v", err)
	}

	if encodeOnly {
		encoded, err := txbuild.EncodeBase58(tx)
		if err != nil {
			klog.Exitf("encode transaction: %v", err)
		}
		klog.Infof("unsigned transaction:\n%s", encoded)
		return
	}

	ctl := execute.NewController(rt.Gateway, rt.Addrs.State)
	signers := append([]solana.PrivateKey{payer}, extraSigners...)
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
	klog.Infof("confirmed %s", sig)
}

func loadRuntime() (*config.Runtime, solana.PrivateKey) {
	rt, err := config.NewRuntime(configPath)
	if err != nil {
		klog.Exitf("load runtime: %v", err)
	}
	admin, err := rt.AdminKey()
	if err != nil {
		klog.Exitf("load admin keypair: %v", err)
	}
	return rt, admin
}
