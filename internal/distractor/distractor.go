// Package distractor builds multiple-choice option sets and fill-in word
// banks out of plausible wrong answers.
package distractor

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/textmatch"
)

// ErrNotEnoughItems is returned when a pool cannot supply enough unique
// labels for a round. Callers surface it instead of rendering a short or
// duplicated option set.
var ErrNotEnoughItems = errors.New("not enough items")

const (
	// ChooseOptionCount is the option set size for choose-translation and
	// choose-word rounds; it is also their minimum unique-pool gate.
	ChooseOptionCount = 8

	// MinWordBankSize is the smallest word bank offered in missing-words.
	MinWordBankSize = 10

	// WordBankSlack is how many distractor tiles are added on top of the
	// required answers.
	WordBankSlack = 6
)

// HearingOptionCount grows the hearing option set as the learner's counter
// for the item rises.
func HearingOptionCount(counter int) int {
	return (2 + counter) * 2
}

// WordBankSize is the target word bank size for the given answer count.
func WordBankSize(required int) int {
	return max(MinWordBankSize, required+WordBankSlack)
}

// UniqueLabels returns labels deduplicated by normalized form, keeping the
// first spelling seen and dropping blanks.
func UniqueLabels(labels ...[]string) []string {
	var all []string
	for _, l := range labels {
		all = append(all, l...)
	}
	return sampler.Unique(all, textmatch.Normalize)
}

// Gate returns ErrNotEnoughItems when labels hold fewer than need unique
// values.
func Gate(labels []string, need int) error {
	if n := len(UniqueLabels(labels)); n < need {
		return fmt.Errorf("%w: have %d unique, need %d", ErrNotEnoughItems, n, need)
	}
	return nil
}

// BuildOptionSet returns exactly size unique labels including correct.
// Siblings (same lesson or session) are preferred; the global pool tops up
// any shortfall. The result is shuffled.
func BuildOptionSet(r *rand.Rand, correct string, siblings, global []string, size int) ([]string, error) {
	if size < 1 {
		return nil, fmt.Errorf("option set size %d: %w", size, ErrNotEnoughItems)
	}
	correctKey := textmatch.Normalize(correct)
	if correctKey == "" {
		return nil, fmt.Errorf("empty correct label: %w", ErrNotEnoughItems)
	}

	if n := len(UniqueLabels([]string{correct}, siblings, global)); n < size {
		return nil, fmt.Errorf("%w: have %d unique, need %d", ErrNotEnoughItems, n, size)
	}

	chosen := []string{correct}
	used := map[string]bool{correctKey: true}

	take := func(pool []string, n int) {
		var fresh []string
		for _, l := range UniqueLabels(pool) {
			if !used[textmatch.Normalize(l)] {
				fresh = append(fresh, l)
			}
		}
		for _, l := range sampler.SampleN(r, fresh, n) {
			used[textmatch.Normalize(l)] = true
			chosen = append(chosen, l)
		}
	}

	take(siblings, size-1)
	if len(chosen) < size {
		take(global, size-len(chosen))
	}
	if len(chosen) < size {
		return nil, fmt.Errorf("%w: built %d of %d options", ErrNotEnoughItems, len(chosen), size)
	}

	out := sampler.Shuffle(r, chosen)
	return out[:size], nil
}

// BuildWordBank returns a shuffled bank holding every required token once
// per blank plus sampled context tokens up to size. Context tokens that
// match a required token are skipped so no answer appears twice by
// accident.
func BuildWordBank(r *rand.Rand, required, context []string, size int) []string {
	bank := append([]string(nil), required...)
	used := make(map[string]bool, len(required))
	for _, t := range required {
		used[textmatch.Normalize(t)] = true
	}

	var fresh []string
	for _, t := range UniqueLabels(context) {
		if !used[textmatch.Normalize(t)] {
			fresh = append(fresh, t)
		}
	}
	if need := size - len(bank); need > 0 {
		bank = append(bank, sampler.SampleN(r, fresh, need)...)
	}
	return sampler.Shuffle(r, bank)
}
