// Package blanks chooses which characters or tokens are hidden in fill-in
// exercises.
package blanks

import (
	"math/rand/v2"
	"sort"
	"strings"
	"unicode"

	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Chars splits a term into single-character units.
func Chars(s string) []string {
	units := make([]string, 0, len(s))
	for _, r := range s {
		units = append(units, string(r))
	}
	return units
}

// Tokens splits a sentence into whitespace-separated units.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// Blankable reports whether a unit contains at least one letter.
// Spaces, punctuation and digit-only units are never hidden.
func Blankable(unit string) bool {
	for _, r := range unit {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Candidates returns the indices of blankable units.
func Candidates(units []string) []int {
	idx := make([]int, 0, len(units))
	for i, u := range units {
		if Blankable(u) {
			idx = append(idx, i)
		}
	}
	return idx
}

// PickIndices selects desired blank positions among the blankable units.
// desired is clamped to [1, candidates]. The result is sorted ascending
// and is empty only when no unit is blankable.
func PickIndices(r *rand.Rand, units []string, desired int) []int {
	candidates := Candidates(units)
	if len(candidates) == 0 {
		return []int{}
	}
	if desired < 1 {
		desired = 1
	}
	if desired > len(candidates) {
		desired = len(candidates)
	}
	picked := sampler.SampleN(r, candidates, desired)
	sort.Ints(picked)
	return picked
}

// LetterCount is the number of letters to hide in a single-word letter
// fill: more as the threshold gets stricter and as the learner's counter
// for the kind rises.
func LetterCount(policy vocab.Policy, counter int) int {
	return max(1, (4-policy.PerKindThreshold)+counter)
}

// TokenCount is the number of sentence tokens to hide in missing-words.
func TokenCount(counter int) int {
	return max(1, counter)
}

// Mask renders units with the blanked positions replaced by placeholder.
func Mask(units []string, indices []int, placeholder string, sep string) string {
	hidden := make(map[int]bool, len(indices))
	for _, i := range indices {
		hidden[i] = true
	}
	out := make([]string, len(units))
	for i, u := range units {
		if hidden[i] {
			out[i] = placeholder
		} else {
			out[i] = u
		}
	}
	return strings.Join(out, sep)
}

// Fill substitutes answers into units at indices, in order. Extra or
// missing answers leave the remaining positions untouched.
func Fill(units []string, indices []int, answers []string) []string {
	out := make([]string, len(units))
	copy(out, units)
	for n, i := range indices {
		if n >= len(answers) {
			break
		}
		if i >= 0 && i < len(out) {
			out[i] = answers[n]
		}
	}
	return out
}
