package lootbox

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestAccessGateOwnerOnlyWithoutDirectory(t *testing.T) {
	gate := NewAccessGate(nil)
	owner := addr(0x20)
	if err := gate.Authorize(owner, owner); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
	if err := gate.Authorize(owner, addr(0x21)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized without directory, got %v", err)
	}
}

func TestAccessGateConsultsDirectory(t *testing.T) {
	owner := addr(0x22)
	delegate := addr(0x23)
	gate := NewAccessGate(&mockDirectory{proxies: map[common.Address]common.Address{owner: delegate}})

	if err := gate.Authorize(owner, delegate); err != nil {
		t.Fatalf("approved delegate denied: %v", err)
	}
	if err := gate.Authorize(owner, addr(0x24)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for stranger, got %v", err)
	}
	// A delegate approval never works in the reverse direction.
	if err := gate.Authorize(delegate, owner); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for reversed pair, got %v", err)
	}
}
