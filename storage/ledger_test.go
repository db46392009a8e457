package storage

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/fisher821/opensea-erc1155/native/lootbox"
)

func testAddr(last byte) common.Address {
	var out common.Address
	out[19] = last
	return out
}

func TestLedgerMintAccumulatesBalanceAndSupply(t *testing.T) {
	ledger := NewTokenLedger(NewMemDB())
	buyer := testAddr(0x01)
	other := testAddr(0x02)

	require.NoError(t, ledger.Mint(buyer, 1, 3))
	require.NoError(t, ledger.Mint(buyer, 1, 2))
	require.NoError(t, ledger.Mint(other, 1, 4))
	require.NoError(t, ledger.Mint(buyer, 5, 1))

	balance, err := ledger.BalanceOf(buyer, 1)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(5), balance)

	supply, err := ledger.TotalSupply(1)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(9), supply)

	untouched, err := ledger.BalanceOf(other, 5)
	require.NoError(t, err)
	require.True(t, untouched.IsZero())
}

func TestLedgerRejectsZeroMint(t *testing.T) {
	ledger := NewTokenLedger(NewMemDB())
	require.Error(t, ledger.Mint(testAddr(0x03), 1, 0))
}

func TestLedgerApprovalLifecycle(t *testing.T) {
	ledger := NewTokenLedger(NewMemDB())
	owner := testAddr(0x10)
	operator := testAddr(0x11)

	approved, err := ledger.IsProxyFor(owner, operator)
	require.NoError(t, err)
	require.False(t, approved)

	require.NoError(t, ledger.SetApprovalForAll(owner, operator, true))
	approved, err = ledger.IsProxyFor(owner, operator)
	require.NoError(t, err)
	require.True(t, approved)

	// Approval is directional: the operator has not approved the owner.
	reversed, err := ledger.IsProxyFor(operator, owner)
	require.NoError(t, err)
	require.False(t, reversed)

	require.NoError(t, ledger.SetApprovalForAll(owner, operator, false))
	approved, err = ledger.IsProxyFor(owner, operator)
	require.NoError(t, err)
	require.False(t, approved)
}

func TestLedgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	db1, err := NewLevelDB(dir)
	require.NoError(t, err)

	ledger := NewTokenLedger(db1)
	buyer := testAddr(0x20)
	operator := testAddr(0x21)
	require.NoError(t, ledger.Mint(buyer, lootbox.ClassID(3), 7))
	require.NoError(t, ledger.SetApprovalForAll(buyer, operator, true))
	require.NoError(t, db1.Close())

	db2, err := NewLevelDB(dir)
	require.NoError(t, err)
	defer db2.Close()

	restored := NewTokenLedger(db2)
	balance, err := restored.BalanceOf(buyer, 3)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(7), balance)

	approved, err := restored.IsProxyFor(buyer, operator)
	require.NoError(t, err)
	require.True(t, approved)
}
