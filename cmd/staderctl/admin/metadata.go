package admin

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/0xabstracted/stader-liquid-staking/pkg/staderstake"
)

var (
	updateMetadataCmd = cobra.Command{
		Use:   "update-metadata",
		Short: "Create or update a mint's token metadata record",
		Run:   runUpdateMetadata,
	}

	metadataMint   string
	metadataName   string
	metadataSymbol string
	metadataURI    string
)

func init() {
	f := updateMetadataCmd.Flags()
	f.StringVar(&metadataMint, "mint", "stader-sol", "Which mint to update: stader-sol or lp")
	f.StringVar(&metadataName, "name", "", "Token name")
	f.StringVar(&metadataSymbol, "symbol", "", "Token symbol")
	f.StringVar(&metadataURI, "uri", "", "Metadata URI")
	updateMetadataCmd.MarkFlagRequired("name")
	updateMetadataCmd.MarkFlagRequired("symbol")
	updateMetadataCmd.MarkFlagRequired("uri")
}

func runUpdateMetadata(c *cobra.Command, args []string) {
	ctx := c.Context()
	rt, adminKey := loadRuntime()

	md := staderstake.TokenMetadata{
		Name:   metadataName,
		Symbol: metadataSymbol,
		URI:    metadataURI,
	}

	var (
		ix  solana.Instruction
		err error
	)
	switch metadataMint {
	case "stader-sol":
		ix, err = staderstake.UpdateStaderSolTokenMetadata(rt.Addrs, adminKey.PublicKey(), md)
	case "lp":
		ix, err = staderstake.UpdateLpMintTokenMetadata(rt.Addrs, adminKey.PublicKey(), md)
	default:
		klog.Exitf("unknown mint %q, want stader-sol or lp", metadataMint)
	}
	if err != nil {
		klog.Exitf("build update-metadata: %v", err)
	}

	submit(ctx, rt, adminKey, []solana.Instruction{ix}, nil)
}
