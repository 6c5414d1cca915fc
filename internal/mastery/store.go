// Package mastery owns the practice item collection: pool selection, the
// per-kind counters and the graduation rule.
package mastery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/wordiz/internal/logger"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
)

// ErrItemNotFound is returned when a term is not in the collection.
var ErrItemNotFound = errors.New("item not found")

// Result reports the outcome of an Increment.
type Result struct {
	// Sum is the aggregate counter after the increment.
	Sum int
	// Removed is true when the item graduated and left the collection.
	Removed bool
}

// Options configures a Store.
type Options struct {
	Policy    vocab.Policy
	Events    store.EventRepo // optional
	SessionID string
	Logger    *logger.Logger
}

// Store wraps a persistence provider with the mastery rules.
//
// Increment calls are serialized by a mutex so a single process never
// interleaves two read-modify-writes. When the collection implements
// store.Updater the read-modify-write also runs atomically in the backend.
type Store struct {
	mu        sync.Mutex
	items     store.CollectionRepo
	events    store.EventRepo
	policy    vocab.Policy
	sessionID string
	log       *logger.Logger
	now       func() time.Time
}

// NewStore creates a mastery store over items.
func NewStore(items store.CollectionRepo, opts Options) *Store {
	return &Store{
		items:     items,
		events:    opts.Events,
		policy:    opts.Policy.Clamped(),
		sessionID: opts.SessionID,
		log:       logger.OrNop(opts.Logger),
		now:       time.Now,
	}
}

// Policy returns the active policy.
func (s *Store) Policy() vocab.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// SetPolicy replaces the active policy.
func (s *Store) SetPolicy(p vocab.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p.Clamped()
}

// Load returns the whole collection. A missing or unreadable collection
// is treated as empty.
func (s *Store) Load(ctx context.Context) []vocab.Item {
	items, err := s.items.ReadCollection(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("reading practice items failed; treating as empty", "error", err)
		}
		return []vocab.Item{}
	}
	for i := range items {
		items[i].EnsureCounters()
	}
	return items
}

// Pool loads the collection and filters it for kind.
func (s *Store) Pool(ctx context.Context, kind vocab.Kind) []vocab.Item {
	return FilterForPool(s.Load(ctx), kind, s.Policy())
}

// Counters returns the counters for term, or zeroed counters when the term
// is not stored.
func (s *Store) Counters(ctx context.Context, term string) vocab.Counters {
	for _, it := range s.Load(ctx) {
		if it.Term == term {
			return it.Counters
		}
	}
	empty := vocab.Item{}
	empty.EnsureCounters()
	return empty.Counters
}

// Increment records one correct answer of kind for term. When the
// aggregate sum reaches the policy's threshold the item is removed and
// Result.Removed is set.
func (s *Store) Increment(ctx context.Context, term string, kind vocab.Kind) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res Result
	apply := func(items []vocab.Item) ([]vocab.Item, error) {
		idx := indexOf(items, term)
		if idx < 0 {
			return nil, fmt.Errorf("%q: %w", term, ErrItemNotFound)
		}
		it := &items[idx]
		it.EnsureCounters()
		it.Counters[kind]++
		res.Sum = it.Counters.Sum()
		if s.policy.Graduated(it.Counters) {
			res.Removed = true
			items = append(items[:idx], items[idx+1:]...)
		}
		return items, nil
	}

	if err := s.update(ctx, apply); err != nil {
		return Result{}, err
	}

	s.record(ctx, store.PracticeEventData{
		Term:       term,
		Kind:       kind,
		Correct:    true,
		CounterSum: res.Sum,
		Graduated:  res.Removed,
	})
	if res.Removed {
		s.log.Info("item graduated", "term", term, "sum", res.Sum)
	}
	return res, nil
}

// RecordMiss logs a wrong answer. Counters are never touched.
func (s *Store) RecordMiss(ctx context.Context, term string, kind vocab.Kind) {
	s.record(ctx, store.PracticeEventData{Term: term, Kind: kind})
}

// Add stores new items with zeroed counters, skipping terms already
// present (case-insensitive). It returns how many were added.
func (s *Store) Add(ctx context.Context, newItems ...vocab.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	err := s.update(ctx, func(items []vocab.Item) ([]vocab.Item, error) {
		seen := make(map[string]bool, len(items))
		for _, it := range items {
			seen[strings.ToLower(it.Term)] = true
		}
		for _, it := range newItems {
			key := strings.ToLower(strings.TrimSpace(it.Term))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			it.Term = strings.TrimSpace(it.Term)
			it.Translation = strings.TrimSpace(it.Translation)
			if it.CreatedAt.IsZero() {
				it.CreatedAt = s.now().UTC()
			}
			it.Counters = nil
			it.EnsureCounters()
			items = append(items, it)
			added++
		}
		return items, nil
	})
	return added, err
}

// Reset removes every item.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.WriteCollection(ctx, nil)
}

func (s *Store) update(ctx context.Context, fn func([]vocab.Item) ([]vocab.Item, error)) error {
	if u, ok := s.items.(store.Updater); ok {
		return u.UpdateCollection(ctx, fn)
	}

	items, err := s.items.ReadCollection(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Warn("reading practice items failed; treating as empty", "error", err)
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return s.items.WriteCollection(ctx, next)
}

func (s *Store) record(ctx context.Context, data store.PracticeEventData) {
	if s.events == nil {
		return
	}
	data.SessionID = s.sessionID
	if err := s.events.AppendPracticeEvent(ctx, data); err != nil {
		s.log.Warn("recording practice event failed", "term", data.Term, "error", err)
	}
}

func indexOf(items []vocab.Item, term string) int {
	for i, it := range items {
		if it.Term == term {
			return i
		}
	}
	return -1
}
