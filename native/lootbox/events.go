package lootbox

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fisher821/opensea-erc1155/core/types"
)

const (
	// TypeBoxOpened is emitted once per successful dispatch, after all mint
	// calls completed.
	TypeBoxOpened = "lootbox.opened"
)

// BoxOpened summarises one completed dispatch: who bought how many boxes of
// which option, and the exact per-class quantities that were minted.
type BoxOpened struct {
	RequestID string
	Option    OptionID
	Buyer     common.Address
	Boxes     uint32
	Tally     Tally
	Total     uint64
	Digest    [32]byte
}

// EventType implements events.Event.
func (BoxOpened) EventType() string { return TypeBoxOpened }

// Event flattens the summary into the attribute envelope consumed by hosts.
func (e BoxOpened) Event() *types.Event {
	return &types.Event{
		Type: TypeBoxOpened,
		Attributes: map[string]string{
			"requestId": e.RequestID,
			"option":    strconv.FormatUint(uint64(e.Option), 10),
			"buyer":     strings.ToLower(e.Buyer.Hex()),
			"boxes":     strconv.FormatUint(uint64(e.Boxes), 10),
			"total":     strconv.FormatUint(e.Total, 10),
			"tally":     e.Tally.String(),
			"digest":    hex.EncodeToString(e.Digest[:]),
		},
	}
}
