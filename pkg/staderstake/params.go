package staderstake

import (
	"github.com/gagliardetto/solana-go"
)

// Fee is a basis-point fee (1 bp = 0.01%).
type Fee struct {
	BasisPoints uint32
}

// FeeCents is a fee expressed in hundredths of a basis point.
type FeeCents struct {
	BpCents uint32
}

// LiqPoolInitializeData configures the liquidity pool at initialization.
type LiqPoolInitializeData struct {
	LpLiquidityTarget uint64
	LpMaxFee          Fee
	LpMinFee          Fee
	LpTreasuryCut     Fee
}

// InitializeData is the initialize instruction's argument block.
type InitializeData struct {
	AdminAuthority                 solana.PublicKey
	ValidatorManagerAuthority      solana.PublicKey
	MinStake                       uint64
	RewardsFee                     Fee
	LiqPool                        LiqPoolInitializeData
	AdditionalStakeRecordSpace     uint32
	AdditionalValidatorRecordSpace uint32
	SlotsForStakeDelta             uint64
	PauseAuthority                 solana.PublicKey
}

// ConfigStaderParams reconfigures protocol limits and fees. Every field is
// optional; nil fields leave the on-chain value untouched.
type ConfigStaderParams struct {
	RewardsFee                  *Fee      `bin:"optional"`
	SlotsForStakeDelta          *uint64   `bin:"optional"`
	MinStake                    *uint64   `bin:"optional"`
	MinDeposit                  *uint64   `bin:"optional"`
	MinWithdraw                 *uint64   `bin:"optional"`
	StakingSolCap               *uint64   `bin:"optional"`
	LiquiditySolCap             *uint64   `bin:"optional"`
	WithdrawStakeAccountEnabled *bool     `bin:"optional"`
	DelayedUnstakeFee           *FeeCents `bin:"optional"`
	WithdrawStakeAccountFee     *FeeCents `bin:"optional"`
	MaxStakeMovedPerEpoch       *Fee      `bin:"optional"`
}

// TokenMetadata names a mint for the external metadata program.
type TokenMetadata struct {
	Name   string
	Symbol string
	URI    string
}
