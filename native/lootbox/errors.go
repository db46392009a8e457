package lootbox

import "errors"

var (
	ErrNilCatalog          = errors.New("lootbox: catalog not configured")
	ErrNilMinter           = errors.New("lootbox: minter not configured")
	ErrInvalidOption       = errors.New("lootbox: invalid option")
	ErrUnauthorized        = errors.New("lootbox: unauthorized")
	ErrInvalidQuantity     = errors.New("lootbox: boxes must be positive")
	ErrQuantityRequired    = errors.New("lootbox: quantity per open must be positive")
	ErrGuaranteeRequired   = errors.New("lootbox: guarantee minimum must be positive")
	ErrGuaranteeOverflow   = errors.New("lootbox: guarantees exceed quantity per open")
	ErrClassOutOfRange     = errors.New("lootbox: guarantee class outside universe")
	ErrInvalidWeights      = errors.New("lootbox: class weights malformed")
	ErrNoClassesConfigured = errors.New("lootbox: class universe must be positive")
)
