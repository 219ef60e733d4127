package config

import (
	"github.com/gagliardetto/solana-go"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
	"github.com/0xabstracted/stader-liquid-staking/pkg/gateway"
)

// Runtime is the explicit per-process context: configuration, the ledger
// gateway and the derived address set, constructed once at startup and
// passed by reference into every component. Nothing reads ambient globals.
type Runtime struct {
	Cfg     *Config
	Gateway *gateway.Client
	Addrs   *derive.ProtocolAddresses

	StakeList             solana.PublicKey
	ValidatorList         solana.PublicKey
	OperationalSolAccount solana.PublicKey
}

func NewRuntime(path string) (*Runtime, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	commitment, err := cfg.CommitmentType()
	if err != nil {
		return nil, err
	}

	programID, err := cfg.Pubkey("program_id", cfg.ProgramID)
	if err != nil {
		return nil, err
	}
	state, err := cfg.Pubkey("state_account", cfg.StateAccount)
	if err != nil {
		return nil, err
	}
	staderSolMint, err := cfg.Pubkey("stader_sol_mint", cfg.StaderSolMint)
	if err != nil {
		return nil, err
	}
	lpMint, err := cfg.Pubkey("lp_mint", cfg.LpMint)
	if err != nil {
		return nil, err
	}

	addrs, err := derive.NewProtocolAddresses(programID, state, staderSolMint, lpMint)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Cfg:     cfg,
		Gateway: gateway.New(cfg.RPC, commitment),
		Addrs:   addrs,
	}
	for _, f := range []struct {
		name  string
		value string
		dst   *solana.PublicKey
	}{
		{"stake_list", cfg.StakeList, &rt.StakeList},
		{"validator_list", cfg.ValidatorList, &rt.ValidatorList},
		{"operational_sol_account", cfg.OperationalSolAccount, &rt.OperationalSolAccount},
	} {
		if f.value == "" {
			continue
		}
		pk, err := cfg.Pubkey(f.name, f.value)
		if err != nil {
			return nil, err
		}
		*f.dst = pk
	}
	return rt, nil
}

// AdminKey loads the admin/payer signing identity named by the config.
func (rt *Runtime) AdminKey() (solana.PrivateKey, error) {
	return solana.PrivateKeyFromSolanaKeygenFile(rt.Cfg.AdminKeypair)
}
