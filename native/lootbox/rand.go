package lootbox

import "math/rand"

// RandomSource supplies the draws used to fill the unguaranteed remainder of
// a box. The engine holds no randomness state of its own so seeded sources
// make allocations fully deterministic.
type RandomSource interface {
	// Draw returns a value in [0, bound). bound is always positive.
	Draw(bound uint32) uint32
}

type mathRandSource struct {
	rng *rand.Rand
}

func (s mathRandSource) Draw(bound uint32) uint32 {
	return uint32(s.rng.Int63n(int64(bound)))
}

// NewSeededSource returns a math/rand backed source. Suitable for tests and
// for hosts that derive the seed from verifiable randomness.
func NewSeededSource(seed int64) RandomSource {
	return mathRandSource{rng: rand.New(rand.NewSource(seed))}
}
