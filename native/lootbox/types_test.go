package lootbox

import (
	"strings"
	"testing"
)

func TestReceiptDigestIsStable(t *testing.T) {
	receipt := &Receipt{
		RequestID: "req-1",
		Option:    2,
		Buyer:     addr(0x01),
		Boxes:     1,
		Tally:     Tally{1: 3, 3: 2, 5: 2},
		Total:     7,
	}
	first, err := receipt.Digest()
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	second, err := receipt.Digest()
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if first != second {
		t.Fatalf("digest not deterministic")
	}

	receipt.Tally[1] = 4
	receipt.Total = 8
	changed, err := receipt.Digest()
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if changed == first {
		t.Fatalf("digest did not change with tally")
	}
}

func TestReceiptDigestRequiresRequestID(t *testing.T) {
	receipt := &Receipt{Tally: Tally{1: 1}, Total: 1}
	if _, err := receipt.Digest(); err == nil {
		t.Fatalf("expected error for missing request id")
	}
}

func TestTallyStringOrdersClasses(t *testing.T) {
	tally := Tally{5: 1, 1: 3, 3: 2}
	if got := tally.String(); got != "1:3,3:2,5:1" {
		t.Fatalf("unexpected tally encoding: %s", got)
	}
}

func TestReceiptCanonicalJSONSortsTally(t *testing.T) {
	receipt := &Receipt{
		RequestID: "req-2",
		Buyer:     addr(0x02),
		Boxes:     1,
		Tally:     Tally{4: 1, 2: 2},
		Total:     3,
	}
	canonical, err := receipt.CanonicalJSON()
	if err != nil {
		t.Fatalf("canonical encoding failed: %v", err)
	}
	body := string(canonical)
	if strings.Index(body, `"class":2`) > strings.Index(body, `"class":4`) {
		t.Fatalf("tally entries not sorted: %s", body)
	}
}
