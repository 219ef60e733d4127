// Package config loads the YAML run configuration. Keypair material itself
// is loaded by the commands; config only names the files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gopkg.in/yaml.v3"
)

// Config describes one deployment and the identities operating it. The RPC
// endpoint has no default: talking to the wrong cluster with real keys is
// worse than failing to start.
type Config struct {
	RPC        string `yaml:"rpc"`
	Commitment string `yaml:"commitment"`

	ProgramID     string `yaml:"program_id"`
	StateAccount  string `yaml:"state_account"`
	StaderSolMint string `yaml:"stader_sol_mint"`
	LpMint        string `yaml:"lp_mint"`

	StakeList             string `yaml:"stake_list"`
	ValidatorList         string `yaml:"validator_list"`
	OperationalSolAccount string `yaml:"operational_sol_account"`

	AdminKeypair         string `yaml:"admin_keypair"`
	StaderSolMintKeypair string `yaml:"stader_sol_mint_keypair"`
	LpMintKeypair        string `yaml:"lp_mint_keypair"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every missing required field at once.
func (c *Config) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"rpc", c.RPC},
		{"program_id", c.ProgramID},
		{"state_account", c.StateAccount},
		{"stader_sol_mint", c.StaderSolMint},
		{"lp_mint", c.LpMint},
		{"admin_keypair", c.AdminKeypair},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("config missing required fields: %s", strings.Join(missing, ", "))
	}
	if _, err := c.CommitmentType(); err != nil {
		return err
	}
	return nil
}

func (c *Config) CommitmentType() (rpc.CommitmentType, error) {
	switch c.Commitment {
	case "", "finalized":
		return rpc.CommitmentFinalized, nil
	case "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "processed":
		return rpc.CommitmentProcessed, nil
	default:
		return "", fmt.Errorf("unknown commitment level %q", c.Commitment)
	}
}

func (c *Config) Pubkey(field, value string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("config field %s: %w", field, err)
	}
	return pk, nil
}
