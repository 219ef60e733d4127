package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/cmd/staderctl/admin"
	"github.com/0xabstracted/stader-liquid-staking/cmd/staderctl/bootstrap"
	"github.com/0xabstracted/stader-liquid-staking/cmd/staderctl/user"

	// Load in instruction pretty-printing
	_ "github.com/gagliardetto/solana-go/programs/system"
	_ "github.com/gagliardetto/solana-go/programs/token"
)

var cmd = cobra.Command{
	Use:   "staderctl",
	Short: "Stader liquid-staking client",
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(
		&bootstrap.Cmd,
		&admin.Cmd,
		&user.Cmd,
	)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	cobra.CheckErr(cmd.ExecuteContext(ctx))
}
