package derive

import (
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testProgramID = solana.MustPublicKeyFromBase58("MarBmsSgKXdrN1egZf5sqe1TMai9K1rChYNDJgjq7aD")
	testState     = solana.MustPublicKeyFromBase58("16FMCmgLzCNNz6eTwGanbyN2ZxvTBSLuQ6DZhgeMshg")
)

// Derivation is pure: identical seed tuples must yield identical
// (address, bump) pairs on every call.
func TestDerive_Deterministic(t *testing.T) {
	for _, label := range []string{
		SeedStaderSolMintAuthority,
		SeedLpMintAuthority,
		SeedReserve,
		SeedSolLeg,
		SeedStaderSolLegAuthority,
		SeedStakeDeposit,
		SeedStakeWithdraw,
	} {
		addr1, bump1, err := Derive(testProgramID, testState, label)
		require.NoError(t, err, label)
		addr2, bump2, err := Derive(testProgramID, testState, label)
		require.NoError(t, err, label)

		assert.Equal(t, addr1, addr2, label)
		assert.Equal(t, bump1, bump2, label)
		assert.False(t, addr1.IsZero(), label)
		assert.False(t, addr1.IsOnCurve(), "derived address must be off-curve: %s", label)
	}
}

// Distinct labels must never collide under the same (program, base) pair.
func TestDerive_DistinctLabels(t *testing.T) {
	seen := make(map[solana.PublicKey]string)
	for _, label := range []string{
		SeedStaderSolMintAuthority,
		SeedLpMintAuthority,
		SeedReserve,
		SeedSolLeg,
		SeedStaderSolLegAuthority,
		SeedStakeDeposit,
		SeedStakeWithdraw,
	} {
		addr, _, err := Derive(testProgramID, testState, label)
		require.NoError(t, err)
		prev, dup := seen[addr]
		require.False(t, dup, "labels %q and %q derived the same address", label, prev)
		seen[addr] = label
	}
}

func TestDerive_RejectsOverlongLabel(t *testing.T) {
	_, _, err := Derive(testProgramID, testState, strings.Repeat("x", 33))
	var seedErr *SeedError
	require.ErrorAs(t, err, &seedErr)

	_, _, err = Derive(testProgramID, testState, "ok", make([]byte, 33))
	require.ErrorAs(t, err, &seedErr)
}

// The duplication flag is keyed by the (state, vote account) pair: the
// same pair always derives the same flag, different votes different flags.
func TestDuplicationFlag(t *testing.T) {
	vote1 := solana.MustPublicKeyFromBase58("FwR3PbjS5iyqzLiLugrBqKSa5EKZ4vK9SKs7eQXtT59f")
	vote2 := solana.MustPublicKeyFromBase58("4QUZQ4c7bZuJ4o4L8tYAEGnePFV27SUFEVmC7BYfsXRp")

	flag1a, bump1a, err := DuplicationFlag(testProgramID, testState, vote1)
	require.NoError(t, err)
	flag1b, bump1b, err := DuplicationFlag(testProgramID, testState, vote1)
	require.NoError(t, err)
	flag2, _, err := DuplicationFlag(testProgramID, testState, vote2)
	require.NoError(t, err)

	assert.Equal(t, flag1a, flag1b)
	assert.Equal(t, bump1a, bump1b)
	assert.NotEqual(t, flag1a, flag2)
}

func TestMetadataRecord(t *testing.T) {
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	rec1, bump1, err := MetadataRecord(mint)
	require.NoError(t, err)
	rec2, bump2, err := MetadataRecord(mint)
	require.NoError(t, err)

	assert.Equal(t, rec1, rec2)
	assert.Equal(t, bump1, bump2)
	assert.False(t, rec1.IsZero())
}

func TestNewProtocolAddresses(t *testing.T) {
	staderSolMint := solana.NewWallet().PublicKey()
	lpMint := solana.NewWallet().PublicKey()

	a, err := NewProtocolAddresses(testProgramID, testState, staderSolMint, lpMint)
	require.NoError(t, err)

	b, err := NewProtocolAddresses(testProgramID, testState, staderSolMint, lpMint)
	require.NoError(t, err)
	assert.Equal(t, a, b, "derivation must be stable across calls")

	// The two ATAs hang off different owners and must differ.
	assert.NotEqual(t, a.StaderSolLeg, a.TreasuryStaderSolAccount)

	expectedLeg, err := AssociatedTokenAccount(a.StaderSolLegAuthority.Address, staderSolMint)
	require.NoError(t, err)
	assert.Equal(t, expectedLeg, a.StaderSolLeg)
}
