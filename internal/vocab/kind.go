package vocab

import (
	"fmt"
	"sort"
)

// Kind identifies a practice exercise kind. Mastery counters are tracked
// per kind.
type Kind string

const (
	KindLetterFill        Kind = "letter-fill"
	KindWordFill          Kind = "word-fill"
	KindChooseTranslation Kind = "choose-translation"
	KindChooseWord        Kind = "choose-word"
	KindMemoryMatch       Kind = "memory-match"
	KindWriteTranslation  Kind = "write-translation"
	KindWriteWord         Kind = "write-word"
	KindHearing           Kind = "hearing"
	KindFlipCard          Kind = "flip-card"
	KindSentenceAssembly  Kind = "sentence-assembly"
)

// AllKinds returns every known kind in display order.
func AllKinds() []Kind {
	return []Kind{
		KindLetterFill,
		KindWordFill,
		KindChooseTranslation,
		KindChooseWord,
		KindMemoryMatch,
		KindWriteTranslation,
		KindWriteWord,
		KindHearing,
		KindFlipCard,
		KindSentenceAssembly,
	}
}

// ParseKind resolves a kind by its identifier.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown practice kind %q", s)
}

// IsSentence reports whether the kind practices example sentences rather
// than single terms.
func (k Kind) IsSentence() bool {
	return k == KindWordFill || k == KindSentenceAssembly
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindLetterFill:
		return "Letter fill"
	case KindWordFill:
		return "Missing words"
	case KindChooseTranslation:
		return "Choose the translation"
	case KindChooseWord:
		return "Choose the word"
	case KindMemoryMatch:
		return "Memory match"
	case KindWriteTranslation:
		return "Write the translation"
	case KindWriteWord:
		return "Write the word"
	case KindHearing:
		return "Hearing"
	case KindFlipCard:
		return "Flip cards"
	case KindSentenceAssembly:
		return "Sentence assembly"
	default:
		return string(k)
	}
}

// Counters holds per-kind correct-answer counts for one item.
type Counters map[Kind]int

// Sum returns the aggregate count across all kinds.
func (c Counters) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (c Counters) Clone() Counters {
	out := make(Counters, len(c))
	for k, n := range c {
		out[k] = n
	}
	return out
}

// Kinds returns the kinds present in c, sorted by identifier.
func (c Counters) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c))
	for k := range c {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
