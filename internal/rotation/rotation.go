// Package rotation picks the practice kind for "surprise me" mode so every
// kind comes up once before any repeats.
package rotation

import (
	"math/rand/v2"
	"sync"

	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/vocab"
)

// ReshuffleAfter is how many plays pass before Init reshuffles the order.
const ReshuffleAfter = 10

// Rotation is a round-robin over a shuffled kind order. It is safe for
// concurrent use.
type Rotation struct {
	mu                sync.Mutex
	kinds             []vocab.Kind
	order             []vocab.Kind
	cursor            int
	playsSinceShuffle int
	rng               *rand.Rand
}

// New creates a rotation over kinds. A nil rng uses the global source.
func New(kinds []vocab.Kind, rng *rand.Rand) *Rotation {
	return &Rotation{kinds: append([]vocab.Kind(nil), kinds...), rng: rng}
}

// Init reshuffles the order when it is empty or after ReshuffleAfter
// plays, resetting the cursor and the play count.
func (r *Rotation) Init() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) > 0 && r.playsSinceShuffle < ReshuffleAfter {
		return
	}
	r.order = sampler.Shuffle(r.rng, r.kinds)
	r.cursor = 0
	r.playsSinceShuffle = 0
}

// Next returns the next kind in the order. It calls Init first if the
// order was never built. Returns "" when there are no kinds.
func (r *Rotation) Next() vocab.Kind {
	r.mu.Lock()
	if len(r.order) == 0 {
		r.mu.Unlock()
		r.Init()
		r.mu.Lock()
	}
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return ""
	}
	k := r.order[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.order)
	r.playsSinceShuffle++
	return k
}

// Plays returns how many kinds were handed out since the last shuffle.
func (r *Rotation) Plays() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playsSinceShuffle
}

// Order returns a copy of the current order.
func (r *Rotation) Order() []vocab.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]vocab.Kind(nil), r.order...)
}
