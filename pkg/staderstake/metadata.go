package staderstake

import (
	"github.com/gagliardetto/solana-go"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
)

type updateMetadataArgs struct {
	Name   string
	Symbol string
	URI    string
}

func (m TokenMetadata) validate() error {
	if m.Name == "" {
		return &ParamError{Field: "name", Reason: "must not be empty"}
	}
	if m.Symbol == "" {
		return &ParamError{Field: "symbol", Reason: "must not be empty"}
	}
	if m.URI == "" {
		return &ParamError{Field: "uri", Reason: "must not be empty"}
	}
	return nil
}

// UpdateStaderSolTokenMetadata builds the instruction creating or updating
// the Metaplex metadata record for the staking-receipt mint.
func UpdateStaderSolTokenMetadata(addrs *derive.ProtocolAddresses, payer solana.PublicKey, md TokenMetadata) (solana.Instruction, error) {
	return updateTokenMetadata(addrs, payer, addrs.StaderSolMint, addrs.StaderSolMintAuthority.Address, ixUpdateStaderSolMetadata, md)
}

// UpdateLpMintTokenMetadata is the liquidity-pool mint counterpart.
func UpdateLpMintTokenMetadata(addrs *derive.ProtocolAddresses, payer solana.PublicKey, md TokenMetadata) (solana.Instruction, error) {
	return updateTokenMetadata(addrs, payer, addrs.LpMint, addrs.LpMintAuthority.Address, ixUpdateLpMintMetadata, md)
}

func updateTokenMetadata(
	addrs *derive.ProtocolAddresses,
	payer solana.PublicKey,
	mint solana.PublicKey,
	mintAuthority solana.PublicKey,
	method string,
	md TokenMetadata,
) (solana.Instruction, error) {
	if err := md.validate(); err != nil {
		return nil, err
	}
	if payer.IsZero() {
		return nil, &ParamError{Field: "payer", Reason: "must not be the zero address"}
	}

	metadataRecord, _, err := derive.MetadataRecord(mint)
	if err != nil {
		return nil, err
	}

	payload, err := anchorData(method, updateMetadataArgs{
		Name:   md.Name,
		Symbol: md.Symbol,
		URI:    md.URI,
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		addrs.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payer).WRITE().SIGNER(),
			solana.Meta(addrs.State),
			solana.Meta(mint),
			solana.Meta(mintAuthority),
			solana.Meta(metadataRecord).WRITE(),
			solana.Meta(solana.SysVarRentPubkey),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(derive.MetadataProgramID),
		},
		payload,
	), nil
}
