package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/fisher821/opensea-erc1155/native/lootbox"
)

var (
	balancePrefix  = []byte("ledger/balance/")
	supplyPrefix   = []byte("ledger/supply/")
	approvalPrefix = []byte("ledger/approval/")
)

// TokenLedger is a reference multi-token ledger in the ERC-1155 mould:
// per-class balances and total supply, plus operator approvals that double as
// the delegate directory consumed by the loot box access gate. It is host
// wiring around the engine, not part of the engine's contract.
type TokenLedger struct {
	mu sync.Mutex
	db Database
}

// The ledger provides both external capabilities the engine consumes.
var (
	_ lootbox.Minter         = (*TokenLedger)(nil)
	_ lootbox.ProxyDirectory = (*TokenLedger)(nil)
)

// NewTokenLedger wraps the supplied database.
func NewTokenLedger(db Database) *TokenLedger {
	return &TokenLedger{db: db}
}

func balanceKey(owner common.Address, class lootbox.ClassID) []byte {
	key := append([]byte(nil), balancePrefix...)
	key = binary.BigEndian.AppendUint32(key, uint32(class))
	return append(key, owner.Bytes()...)
}

func supplyKey(class lootbox.ClassID) []byte {
	return binary.BigEndian.AppendUint32(append([]byte(nil), supplyPrefix...), uint32(class))
}

func approvalKey(owner, operator common.Address) []byte {
	key := append([]byte(nil), approvalPrefix...)
	key = append(key, owner.Bytes()...)
	return append(key, operator.Bytes()...)
}

func (l *TokenLedger) loadAmount(key []byte) (*uint256.Int, error) {
	raw, ok, err := l.db.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return uint256.NewInt(0), nil
	}
	return new(uint256.Int).SetBytes(raw), nil
}

func (l *TokenLedger) storeAmount(key []byte, amount *uint256.Int) error {
	encoded := amount.Bytes32()
	return l.db.Put(key, encoded[:])
}

// Mint credits amount new units of the class to the recipient and grows the
// class supply accordingly. Implements lootbox.Minter.
func (l *TokenLedger) Mint(to common.Address, class lootbox.ClassID, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("ledger: mint amount must be positive")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.loadAmount(balanceKey(to, class))
	if err != nil {
		return err
	}
	supply, err := l.loadAmount(supplyKey(class))
	if err != nil {
		return err
	}
	delta := uint256.NewInt(amount)
	if _, overflow := balance.AddOverflow(balance, delta); overflow {
		return fmt.Errorf("ledger: balance overflow for class %d", class)
	}
	if _, overflow := supply.AddOverflow(supply, delta); overflow {
		return fmt.Errorf("ledger: supply overflow for class %d", class)
	}
	if err := l.storeAmount(balanceKey(to, class), balance); err != nil {
		return err
	}
	return l.storeAmount(supplyKey(class), supply)
}

// BalanceOf returns the owner's balance of the given class.
func (l *TokenLedger) BalanceOf(owner common.Address, class lootbox.ClassID) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadAmount(balanceKey(owner, class))
}

// TotalSupply returns the total minted units of the given class.
func (l *TokenLedger) TotalSupply(class lootbox.ClassID) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadAmount(supplyKey(class))
}

// SetApprovalForAll registers or revokes an operator for all of the owner's
// classes.
func (l *TokenLedger) SetApprovalForAll(owner, operator common.Address, approved bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	value := []byte{0}
	if approved {
		value[0] = 1
	}
	return l.db.Put(approvalKey(owner, operator), value)
}

// IsApprovedForAll reports whether the operator is registered for the owner.
func (l *TokenLedger) IsApprovedForAll(owner, operator common.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	raw, ok, err := l.db.Get(approvalKey(owner, operator))
	if err != nil {
		return false, err
	}
	return ok && len(raw) == 1 && raw[0] == 1, nil
}

// IsProxyFor implements lootbox.ProxyDirectory on top of operator approvals.
func (l *TokenLedger) IsProxyFor(owner, caller common.Address) (bool, error) {
	return l.IsApprovedForAll(owner, caller)
}
