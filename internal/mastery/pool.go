package mastery

import "github.com/abhisek/wordiz/internal/vocab"

// FilterForPool selects the items eligible for a kind-specific practice
// pool. The strict tier keeps practicable items below both thresholds.
// If that is empty, the aggregate threshold alone applies; if that is
// also empty, the full collection is returned so practice is never
// blocked.
func FilterForPool(items []vocab.Item, kind vocab.Kind, policy vocab.Policy) []vocab.Item {
	strict := filter(items, func(it vocab.Item) bool {
		return it.Practicable(kind) &&
			it.Counters[kind] < policy.PerKindThreshold &&
			it.Counters.Sum() < policy.AggregateThreshold
	})
	if len(strict) > 0 {
		return strict
	}

	// TODO: confirm with product whether these looser tiers should exist;
	// they can surface items already past their per-kind threshold.
	aggregate := filter(items, func(it vocab.Item) bool {
		return it.Counters.Sum() < policy.AggregateThreshold
	})
	if len(aggregate) > 0 {
		return aggregate
	}
	return append([]vocab.Item(nil), items...)
}

func filter(items []vocab.Item, keep func(vocab.Item) bool) []vocab.Item {
	var out []vocab.Item
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
