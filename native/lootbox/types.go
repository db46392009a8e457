package lootbox

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"lukechampine.com/blake3"
)

// OptionID identifies a purchasable loot box tier within the catalog.
type OptionID uint32

// ClassID identifies a mintable item class. Class ids are one-based: the
// guarantee offset 0 of an option maps to class id 1.
type ClassID uint32

// Guarantee is a minimum-quantity floor for a single item class within an
// option. ClassOffset is zero-based into the catalog's class universe.
type Guarantee struct {
	ClassOffset uint32 `json:"classOffset"`
	MinQuantity uint32 `json:"minQuantity"`
}

// Option describes one purchasable tier: how many items a single box yields,
// which classes are guaranteed, and optionally how the random remainder is
// weighted across the class universe.
type Option struct {
	// QuantityPerOpen is the number of items minted for each box opened.
	QuantityPerOpen uint32 `json:"quantityPerOpen"`
	// Guarantees are applied in listed order before any random draw.
	Guarantees []Guarantee `json:"guarantees,omitempty"`
	// ClassWeights optionally biases the random remainder. When present it
	// must carry one weight per class in the catalog universe; when absent
	// draws are uniform over all classes.
	ClassWeights []uint32 `json:"classWeights,omitempty"`
}

// HasGuaranteedClasses reports whether the option carries any guarantee.
func (o Option) HasGuaranteedClasses() bool { return len(o.Guarantees) > 0 }

// Clone returns a deep copy so catalog consumers cannot mutate shared slices.
func (o Option) Clone() Option {
	clone := o
	if len(o.Guarantees) > 0 {
		clone.Guarantees = append([]Guarantee(nil), o.Guarantees...)
	}
	if len(o.ClassWeights) > 0 {
		clone.ClassWeights = append([]uint32(nil), o.ClassWeights...)
	}
	return clone
}

// guaranteeTotal sums the guaranteed minimums of the option.
func (o Option) guaranteeTotal() uint64 {
	var total uint64
	for _, g := range o.Guarantees {
		total += uint64(g.MinQuantity)
	}
	return total
}

// Tally maps item classes to minted quantities. All stored quantities are
// positive; absent classes were not minted.
type Tally map[ClassID]uint64

// Total returns the sum of all quantities in the tally.
func (t Tally) Total() uint64 {
	var total uint64
	for _, qty := range t {
		total += qty
	}
	return total
}

// Clone returns an independent copy of the tally.
func (t Tally) Clone() Tally {
	if t == nil {
		return nil
	}
	clone := make(Tally, len(t))
	for class, qty := range t {
		clone[class] = qty
	}
	return clone
}

// Classes returns the tallied class ids in ascending order.
func (t Tally) Classes() []ClassID {
	classes := make([]ClassID, 0, len(t))
	for class := range t {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

// String renders the tally as "class:quantity" pairs in ascending class order.
func (t Tally) String() string {
	parts := make([]string, 0, len(t))
	for _, class := range t.Classes() {
		parts = append(parts, fmt.Sprintf("%d:%d", class, t[class]))
	}
	return strings.Join(parts, ",")
}

// OpenRequest captures one purchase dispatch. It is transient and only lives
// for the duration of a single Open call.
type OpenRequest struct {
	Option OptionID
	Boxes  uint32
	Buyer  common.Address
	Caller common.Address
}

// Receipt is the verifiable record of a successful dispatch: exactly what was
// minted to whom, across how many boxes of which option.
type Receipt struct {
	RequestID string         `json:"requestId"`
	Option    OptionID       `json:"option"`
	Buyer     common.Address `json:"buyer"`
	Boxes     uint32         `json:"boxes"`
	Tally     Tally          `json:"tally"`
	Total     uint64         `json:"total"`
}

type receiptEntry struct {
	Class    ClassID `json:"class"`
	Quantity uint64  `json:"quantity"`
}

// CanonicalJSON returns the canonical encoding used for receipt digests. The
// tally is flattened into an array sorted by class id so the encoding is
// stable regardless of map iteration order.
func (r *Receipt) CanonicalJSON() ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("receipt required")
	}
	if strings.TrimSpace(r.RequestID) == "" {
		return nil, fmt.Errorf("requestId required")
	}
	entries := make([]receiptEntry, 0, len(r.Tally))
	for _, class := range r.Tally.Classes() {
		entries = append(entries, receiptEntry{Class: class, Quantity: r.Tally[class]})
	}
	canonical := struct {
		RequestID string         `json:"requestId"`
		Option    OptionID       `json:"option"`
		Buyer     string         `json:"buyer"`
		Boxes     uint32         `json:"boxes"`
		Tally     []receiptEntry `json:"tally"`
		Total     uint64         `json:"total"`
	}{
		RequestID: strings.TrimSpace(r.RequestID),
		Option:    r.Option,
		Buyer:     strings.ToLower(r.Buyer.Hex()),
		Boxes:     r.Boxes,
		Tally:     entries,
		Total:     r.Total,
	}
	return json.Marshal(canonical)
}

// Digest computes the blake3 hash over the canonical JSON representation.
// Hosts publish it alongside the receipt so third parties can verify the
// minted allocation.
func (r *Receipt) Digest() ([32]byte, error) {
	canonical, err := r.CanonicalJSON()
	if err != nil {
		return [32]byte{}, err
	}
	return blake3.Sum256(canonical), nil
}
