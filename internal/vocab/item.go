package vocab

import (
	"strings"
	"time"
)

// Item is one saved vocabulary entry with its mastery counters.
type Item struct {
	Term             string    `json:"term"`
	Translation      string    `json:"translation"`
	ExampleSentence  string    `json:"example_sentence,omitempty"`
	CurriculumItemID string    `json:"curriculum_item_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	Counters         Counters  `json:"mastery_counters"`
}

// EnsureCounters fills in a zero counter for every known kind.
// Every item returned by a store read passes through here.
func (it *Item) EnsureCounters() {
	if it.Counters == nil {
		it.Counters = make(Counters, len(AllKinds()))
	}
	for _, k := range AllKinds() {
		if _, ok := it.Counters[k]; !ok {
			it.Counters[k] = 0
		}
	}
}

// Practicable reports whether the item has the text a kind needs.
func (it *Item) Practicable(kind Kind) bool {
	if strings.TrimSpace(it.Term) == "" || strings.TrimSpace(it.Translation) == "" {
		return false
	}
	if kind.IsSentence() && strings.TrimSpace(it.ExampleSentence) == "" {
		return false
	}
	return true
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	it.Counters = it.Counters.Clone()
	return it
}

// Policy holds the two independent mastery thresholds.
//
// PerKindThreshold gates inclusion in kind-specific practice pools and
// scales blank counts. AggregateThreshold gates graduation: once the sum
// of all counters reaches it the item is removed.
type Policy struct {
	PerKindThreshold   int `json:"per_kind_threshold"`
	AggregateThreshold int `json:"aggregate_threshold"`
}

const (
	DefaultPerKindThreshold   = 3
	DefaultAggregateThreshold = 6

	MinPerKindThreshold   = 1
	MaxPerKindThreshold   = 4
	MinAggregateThreshold = 1
	MaxAggregateThreshold = 50
)

// DefaultPolicy returns the policy used when no settings are stored.
func DefaultPolicy() Policy {
	return Policy{
		PerKindThreshold:   DefaultPerKindThreshold,
		AggregateThreshold: DefaultAggregateThreshold,
	}
}

// Clamped returns p with both thresholds forced into their legal ranges.
// Zero values are replaced by defaults.
func (p Policy) Clamped() Policy {
	if p.PerKindThreshold == 0 {
		p.PerKindThreshold = DefaultPerKindThreshold
	}
	if p.AggregateThreshold == 0 {
		p.AggregateThreshold = DefaultAggregateThreshold
	}
	p.PerKindThreshold = clampInt(p.PerKindThreshold, MinPerKindThreshold, MaxPerKindThreshold)
	p.AggregateThreshold = clampInt(p.AggregateThreshold, MinAggregateThreshold, MaxAggregateThreshold)
	return p
}

// Graduated reports whether counters have crossed the aggregate threshold.
func (p Policy) Graduated(c Counters) bool {
	return c.Sum() >= p.AggregateThreshold
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
