package ambient

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness the generators draw from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded source.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func orTimeSeeded(r Rand) Rand {
	if r != nil {
		return r
	}
	return NewRand(time.Now().UnixNano())
}

func drawDirection(r Rand) int {
	if r.Float64() < 0.5 {
		return -1
	}
	return 1
}
