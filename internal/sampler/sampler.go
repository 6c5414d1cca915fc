// Package sampler provides the shuffle and sample-without-replacement
// primitives shared by the practice engine.
package sampler

import (
	"math/rand/v2"
)

// New returns a deterministic source for the given seed.
// A zero seed yields a randomly seeded source.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func intN(r *rand.Rand, n int) int {
	if r == nil {
		return rand.IntN(n)
	}
	return r.IntN(n)
}

// Shuffle returns a uniformly permuted copy of list (Fisher–Yates).
// The input is not modified. A nil r uses the global source.
func Shuffle[T any](r *rand.Rand, list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	for i := len(out) - 1; i > 0; i-- {
		j := intN(r, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SampleN picks n elements of list uniformly without replacement.
// When n >= len(list) the whole list is returned shuffled. Duplicate
// values in list are not collapsed.
func SampleN[T any](r *rand.Rand, list []T, n int) []T {
	if n >= len(list) {
		return Shuffle(r, list)
	}
	if n <= 0 {
		return []T{}
	}
	remaining := make([]T, len(list))
	copy(remaining, list)
	out := make([]T, 0, n)
	for len(out) < n {
		i := intN(r, len(remaining))
		out = append(out, remaining[i])
		remaining[i] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}
	return out
}

// PickIndex returns a random index in [0, n) other than exclude, unless
// n == 1. Pass exclude < 0 to allow any index. Returns -1 when n == 0.
func PickIndex(r *rand.Rand, n, exclude int) int {
	switch {
	case n <= 0:
		return -1
	case n == 1:
		return 0
	case exclude < 0 || exclude >= n:
		return intN(r, n)
	}
	i := intN(r, n-1)
	if i >= exclude {
		i++
	}
	return i
}

// Unique returns the distinct values of list in first-seen order,
// comparing by key(v). Values whose key is empty are dropped.
func Unique[T any](list []T, key func(T) string) []T {
	seen := make(map[string]bool, len(list))
	out := make([]T, 0, len(list))
	for _, v := range list {
		k := key(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
