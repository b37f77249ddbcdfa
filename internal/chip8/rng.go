package chip8

import (
	"math/rand"
	"time"
)

// Rand is the CXKK random-byte source. Constructor-injected so tests can
// substitute a deterministic sequence.
type Rand interface {
	// Byte returns a uniformly distributed value in [0, 256).
	Byte() byte
}

// mathRand is the default Rand, backed by a process-local *rand.Rand seeded
// from the current time. It is never a package-level global: each VM owns
// its own source, so two VMs in the same process never share RNG state.
type mathRand struct {
	src *rand.Rand
}

// NewRand returns the default time-seeded random byte source.
func NewRand() Rand {
	return &mathRand{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *mathRand) Byte() byte {
	return byte(r.src.Intn(256))
}
