package lootbox

import (
	"fmt"
	"math"
)

// Catalog holds the immutable per-option configuration. It is populated once
// at construction and read-only for the life of the engine; there is no
// administrative update path.
type Catalog struct {
	numClasses uint32
	options    []Option
}

// NewCatalog validates and freezes the supplied option definitions over a
// class universe of numClasses item classes. Definitions that could make an
// allocation violate its invariants are rejected here so they can never reach
// a dispatch.
func NewCatalog(numClasses uint32, options []Option) (*Catalog, error) {
	if numClasses == 0 {
		return nil, ErrNoClassesConfigured
	}
	frozen := make([]Option, 0, len(options))
	for id, opt := range options {
		if err := validateOption(numClasses, opt); err != nil {
			return nil, fmt.Errorf("option %d: %w", id, err)
		}
		frozen = append(frozen, opt.Clone())
	}
	return &Catalog{numClasses: numClasses, options: frozen}, nil
}

func validateOption(numClasses uint32, opt Option) error {
	if opt.QuantityPerOpen == 0 {
		return ErrQuantityRequired
	}
	for _, g := range opt.Guarantees {
		if g.MinQuantity == 0 {
			return ErrGuaranteeRequired
		}
		if g.ClassOffset >= numClasses {
			return ErrClassOutOfRange
		}
	}
	if opt.guaranteeTotal() > uint64(opt.QuantityPerOpen) {
		return ErrGuaranteeOverflow
	}
	if len(opt.ClassWeights) > 0 {
		if uint32(len(opt.ClassWeights)) != numClasses {
			return ErrInvalidWeights
		}
		var total uint64
		for _, w := range opt.ClassWeights {
			total += uint64(w)
		}
		// The weight total is the draw bound at allocation time, so it must
		// be positive and fit in a uint32.
		if total == 0 || total > math.MaxUint32 {
			return ErrInvalidWeights
		}
	}
	return nil
}

// Option returns a copy of the configuration for the given id. Ids outside
// the configured range fail with ErrInvalidOption.
func (c *Catalog) Option(id OptionID) (Option, error) {
	if c == nil || uint64(id) >= uint64(len(c.options)) {
		return Option{}, fmt.Errorf("%w: %d", ErrInvalidOption, id)
	}
	return c.options[id].Clone(), nil
}

// NumOptions returns the number of configured options.
func (c *Catalog) NumOptions() int {
	if c == nil {
		return 0
	}
	return len(c.options)
}

// NumClasses returns the size of the item class universe.
func (c *Catalog) NumClasses() uint32 {
	if c == nil {
		return 0
	}
	return c.numClasses
}

// HasGuaranteedClasses reports whether the option carries guarantees. Unknown
// option ids report false.
func (c *Catalog) HasGuaranteedClasses(id OptionID) bool {
	opt, err := c.Option(id)
	if err != nil {
		return false
	}
	return opt.HasGuaranteedClasses()
}
