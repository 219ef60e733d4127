package staderstake

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xabstracted/stader-liquid-staking/pkg/derive"
)

func testAddrs(t *testing.T) *derive.ProtocolAddresses {
	t.Helper()
	addrs, err := derive.NewProtocolAddresses(
		solana.MustPublicKeyFromBase58("MarBmsSgKXdrN1egZf5sqe1TMai9K1rChYNDJgjq7aD"),
		solana.MustPublicKeyFromBase58("16FMCmgLzCNNz6eTwGanbyN2ZxvTBSLuQ6DZhgeMshg"),
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
	)
	require.NoError(t, err)
	return addrs
}

func accountKeys(ix solana.Instruction) []solana.PublicKey {
	var keys []solana.PublicKey
	for _, acc := range ix.Accounts() {
		keys = append(keys, acc.PublicKey)
	}
	return keys
}

func TestDiscriminator(t *testing.T) {
	want := sha256.Sum256([]byte("global:deposit"))
	got := discriminator(ixDeposit)
	assert.Equal(t, want[:8], got[:])
}

// The deposit instruction must carry the derived reserve and liquidity-leg
// addresses in the program's declared account order, with the depositing
// user as the only signer.
func TestDeposit_AccountSet(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	mintTo := solana.NewWallet().PublicKey()

	ix, err := Deposit(addrs, user, mintTo, 10_000_000)
	require.NoError(t, err)
	assert.Equal(t, addrs.ProgramID, ix.ProgramID())

	accs := ix.Accounts()
	require.Len(t, accs, 11)
	assert.Equal(t, addrs.State, accs[0].PublicKey)
	assert.Equal(t, addrs.StaderSolMint, accs[1].PublicKey)
	assert.Equal(t, addrs.SolLeg.Address, accs[2].PublicKey)
	assert.Equal(t, addrs.StaderSolLeg, accs[3].PublicKey)
	assert.Equal(t, addrs.StaderSolLegAuthority.Address, accs[4].PublicKey)
	assert.Equal(t, addrs.Reserve.Address, accs[5].PublicKey)
	assert.Equal(t, user, accs[6].PublicKey)
	assert.Equal(t, mintTo, accs[7].PublicKey)
	assert.Equal(t, addrs.StaderSolMintAuthority.Address, accs[8].PublicKey)

	for i, acc := range accs {
		if acc.PublicKey.Equals(user) {
			assert.True(t, acc.IsSigner, "user must sign")
		} else {
			assert.False(t, acc.IsSigner, "unexpected signer at %d: %s", i, acc.PublicKey)
		}
	}

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 16)
	assert.Equal(t, uint64(10_000_000), binary.LittleEndian.Uint64(data[8:]))
}

func TestDeposit_RejectsZeroAmount(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()

	_, err := Deposit(addrs, user, user, 0)
	var paramErr *ParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "lamports", paramErr.Field)
}

func TestOrderUnstake_EncodesBurnAmount(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	burnFrom := solana.NewWallet().PublicKey()
	ticket := solana.NewWallet().PublicKey()

	ix, err := OrderUnstake(addrs, burnFrom, user, ticket, 5_000_000)
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 16)
	want := sha256.Sum256([]byte("global:order_unstake"))
	assert.Equal(t, want[:8], data[:8])
	assert.Equal(t, uint64(5_000_000), binary.LittleEndian.Uint64(data[8:]))

	assert.Contains(t, accountKeys(ix), ticket)
}

func TestAddValidator_IndexAndDuplicationFlag(t *testing.T) {
	addrs := testAddrs(t)
	manager := solana.NewWallet().PublicKey()
	validatorList := solana.NewWallet().PublicKey()
	vote := solana.MustPublicKeyFromBase58("FwR3PbjS5iyqzLiLugrBqKSa5EKZ4vK9SKs7eQXtT59f")

	ix1, err := AddValidator(addrs, validatorList, manager, manager, vote, 11)
	require.NoError(t, err)
	ix2, err := AddValidator(addrs, validatorList, manager, manager, vote, 11)
	require.NoError(t, err)

	// Same (state, vote) pair, same duplication flag both times.
	assert.Equal(t, accountKeys(ix1)[4], accountKeys(ix2)[4])

	flag, _, err := derive.DuplicationFlag(addrs.ProgramID, addrs.State, vote)
	require.NoError(t, err)
	assert.Equal(t, flag, accountKeys(ix1)[4])
}

func TestDepositStakeAccount_BoundsCheck(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	stake := solana.NewWallet().PublicKey()
	vote := solana.NewWallet().PublicKey()
	list := solana.NewWallet().PublicKey()

	_, err := DepositStakeAccount(addrs, list, list, stake, user, user, vote, user, 5, 5)
	var paramErr *ParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "validatorIndex", paramErr.Field)

	_, err = DepositStakeAccount(addrs, list, list, stake, user, user, vote, user, 4, 5)
	require.NoError(t, err)
}

func TestWithdrawStakeAccount_Validation(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	list := solana.NewWallet().PublicKey()

	_, err := WithdrawStakeAccount(addrs, list, list, user, user, WithdrawStakeAccountParams{
		StakeCount:      1,
		ValidatorCount:  1,
		StaderSolAmount: 0,
		Beneficiary:     user,
		StakeAccount:    user,
		SplitStake:      user,
	})
	var paramErr *ParamError
	require.ErrorAs(t, err, &paramErr)
}

// Indexes must address entries within the caller's view of the stake and
// validator lists.
func TestWithdrawStakeAccount_IndexBounds(t *testing.T) {
	addrs := testAddrs(t)
	user := solana.NewWallet().PublicKey()
	list := solana.NewWallet().PublicKey()

	base := WithdrawStakeAccountParams{
		StakeIndex:      0,
		StakeCount:      3,
		ValidatorIndex:  0,
		ValidatorCount:  2,
		StaderSolAmount: 5_000_000,
		Beneficiary:     user,
		StakeAccount:    user,
		SplitStake:      user,
	}

	_, err := WithdrawStakeAccount(addrs, list, list, user, user, base)
	require.NoError(t, err)

	var paramErr *ParamError

	oob := base
	oob.StakeIndex = 3
	_, err = WithdrawStakeAccount(addrs, list, list, user, user, oob)
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "stakeIndex", paramErr.Field)

	oob = base
	oob.ValidatorIndex = 2
	_, err = WithdrawStakeAccount(addrs, list, list, user, user, oob)
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "validatorIndex", paramErr.Field)
}

func TestConfigStader_OptionalEncoding(t *testing.T) {
	addrs := testAddrs(t)
	admin := solana.NewWallet().PublicKey()

	// All fields nil: payload is the discriminator plus one zero tag per
	// optional field.
	ix, err := ConfigStader(addrs, admin, ConfigStaderParams{})
	require.NoError(t, err)
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Len(t, data, 8+11)

	minStake := uint64(10_000_000)
	ix, err = ConfigStader(addrs, admin, ConfigStaderParams{MinStake: &minStake})
	require.NoError(t, err)
	withValue, err := ix.Data()
	require.NoError(t, err)
	assert.Len(t, withValue, 8+11+8)
}

func TestUpdateMetadata_Validation(t *testing.T) {
	addrs := testAddrs(t)
	payer := solana.NewWallet().PublicKey()

	_, err := UpdateStaderSolTokenMetadata(addrs, payer, TokenMetadata{Symbol: "sSOL", URI: "https://x"})
	var paramErr *ParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "name", paramErr.Field)

	ix, err := UpdateStaderSolTokenMetadata(addrs, payer, TokenMetadata{
		Name:   "Stader Staked SOL",
		Symbol: "staderSOL",
		URI:    "https://staderlabs.s3.ap-south-1.amazonaws.com/staderStakedSol.json",
	})
	require.NoError(t, err)

	record, _, err := derive.MetadataRecord(addrs.StaderSolMint)
	require.NoError(t, err)
	assert.Contains(t, accountKeys(ix), record)
	assert.Contains(t, accountKeys(ix), derive.MetadataProgramID)
}
