package lootbox

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/fisher821/opensea-erc1155/core/events"
)

// Minter is the external multi-token ledger capability. Each call mints
// exactly amount new units of the class to the recipient; there is no
// deduplication. A failure aborts the whole dispatch.
type Minter interface {
	Mint(to common.Address, class ClassID, amount uint64) error
}

// Engine orchestrates loot box openings: it validates the option, checks the
// access gate, allocates item classes per box, invokes the external mint
// capability, and emits the verifiable allocation summary.
//
// Dispatches are synchronous; the host serialises concurrent calls that share
// ledger state.
type Engine struct {
	catalog *Catalog
	minter  Minter
	gate    *AccessGate
	emitter events.Emitter
	rng     RandomSource
	idFn    func() string
}

// NewEngine constructs an engine over the supplied catalog with default
// dependencies: no minter, owner-only access, time-seeded randomness.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{
		catalog: catalog,
		gate:    NewAccessGate(nil),
		emitter: events.NoopEmitter{},
		rng:     NewSeededSource(time.Now().UnixNano()),
		idFn:    uuid.NewString,
	}
}

// SetMinter configures the external mint capability.
func (e *Engine) SetMinter(minter Minter) { e.minter = minter }

// SetProxyDirectory configures the delegate registry behind the access gate.
func (e *Engine) SetProxyDirectory(directory ProxyDirectory) {
	e.gate = NewAccessGate(directory)
}

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetRandSource overrides the randomness used for the unguaranteed remainder.
// Passing nil restores a time-seeded source.
func (e *Engine) SetRandSource(rng RandomSource) {
	if rng == nil {
		e.rng = NewSeededSource(time.Now().UnixNano())
		return
	}
	e.rng = rng
}

// SetRequestIDFunc overrides the receipt id generator for deterministic
// testing. Passing nil restores uuid generation.
func (e *Engine) SetRequestIDFunc(idFn func() string) {
	if idFn == nil {
		e.idFn = uuid.NewString
		return
	}
	e.idFn = idFn
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

// Open processes one purchase request. On success it returns the receipt of
// exactly what was minted to the buyer; on any failure no receipt is issued
// and, unless an external mint call itself failed mid-flight, no mint side
// effects occurred. Authorization always precedes the first mint call.
func (e *Engine) Open(req OpenRequest) (*Receipt, error) {
	if e == nil || e.catalog == nil {
		return nil, ErrNilCatalog
	}
	if e.minter == nil {
		return nil, ErrNilMinter
	}
	if req.Boxes == 0 {
		return nil, ErrInvalidQuantity
	}
	opt, err := e.catalog.Option(req.Option)
	if err != nil {
		return nil, err
	}
	if err := e.gate.Authorize(req.Buyer, req.Caller); err != nil {
		return nil, err
	}
	tally := make(Tally)
	for i := uint32(0); i < req.Boxes; i++ {
		if err := e.allocate(opt, tally); err != nil {
			return nil, err
		}
	}
	for _, class := range tally.Classes() {
		if err := e.minter.Mint(req.Buyer, class, tally[class]); err != nil {
			return nil, fmt.Errorf("lootbox: mint class %d: %w", class, err)
		}
	}
	receipt := &Receipt{
		RequestID: e.idFn(),
		Option:    req.Option,
		Buyer:     req.Buyer,
		Boxes:     req.Boxes,
		Tally:     tally,
		Total:     tally.Total(),
	}
	digest, err := receipt.Digest()
	if err != nil {
		return nil, err
	}
	e.emit(BoxOpened{
		RequestID: receipt.RequestID,
		Option:    receipt.Option,
		Buyer:     receipt.Buyer,
		Boxes:     receipt.Boxes,
		Tally:     receipt.Tally.Clone(),
		Total:     receipt.Total,
		Digest:    digest,
	})
	return receipt, nil
}

// allocate fills the tally for a single box: guaranteed minimums first in
// listed order, then independent random draws for the remainder. The catalog
// rejects configurations whose guarantees exceed the quantity per open, so
// the overflow branch below indicates corrupted state rather than bad input.
func (e *Engine) allocate(opt Option, tally Tally) error {
	remaining := opt.QuantityPerOpen
	for _, g := range opt.Guarantees {
		if g.MinQuantity > remaining {
			return ErrGuaranteeOverflow
		}
		tally[ClassID(g.ClassOffset)+1] += uint64(g.MinQuantity)
		remaining -= g.MinQuantity
	}
	for ; remaining > 0; remaining-- {
		tally[e.drawClass(opt)]++
	}
	return nil
}

// drawClass picks one class for a random unit: weighted when the option
// carries class weights, uniform over the class universe otherwise. The
// returned id carries the one-based adjustment.
func (e *Engine) drawClass(opt Option) ClassID {
	numClasses := e.catalog.NumClasses()
	if len(opt.ClassWeights) == 0 {
		return ClassID(e.rng.Draw(numClasses)) + 1
	}
	var total uint32
	for _, w := range opt.ClassWeights {
		total += w
	}
	roll := e.rng.Draw(total)
	for offset, w := range opt.ClassWeights {
		if roll < w {
			return ClassID(offset) + 1
		}
		roll -= w
	}
	// Unreachable given the weights sum check at catalog construction.
	return ClassID(numClasses)
}
