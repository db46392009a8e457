package lootbox

import "github.com/ethereum/go-ethereum/common"

// ProxyDirectory is the external delegate registry. IsProxyFor reports
// whether caller is registered to act on behalf of owner. Lookup failures
// propagate unchanged and abort the dispatch.
type ProxyDirectory interface {
	IsProxyFor(owner, caller common.Address) (bool, error)
}

// AccessGate decides whether a caller may trigger a mint on behalf of an
// owner: the owner themself, or a delegate approved in the directory.
type AccessGate struct {
	directory ProxyDirectory
}

// NewAccessGate wraps the supplied directory. A nil directory yields a gate
// that only admits the owner.
func NewAccessGate(directory ProxyDirectory) *AccessGate {
	return &AccessGate{directory: directory}
}

// Authorize returns nil when caller is owner or an approved delegate for
// owner, ErrUnauthorized otherwise. It performs no side effects.
func (g *AccessGate) Authorize(owner, caller common.Address) error {
	if caller == owner {
		return nil
	}
	if g == nil || g.directory == nil {
		return ErrUnauthorized
	}
	approved, err := g.directory.IsProxyFor(owner, caller)
	if err != nil {
		return err
	}
	if !approved {
		return ErrUnauthorized
	}
	return nil
}
