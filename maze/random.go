package maze

import "math/rand"

// Random is the maze's private source of randomness. Each maze owns one,
// seeded at construction, so runs with the same seed are identical.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a source seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform integer in [0, n). n must be positive.
func (r *Random) Intn(n int) int {
	return r.rng.Intn(n)
}
