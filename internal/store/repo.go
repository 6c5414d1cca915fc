package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/wordiz/internal/vocab"
)

// ErrNotFound is returned when the item collection has never been written.
var ErrNotFound = errors.New("not found")

// CollectionRepo reads and replaces the whole practice item collection.
type CollectionRepo interface {
	// ReadCollection returns every stored item, or ErrNotFound if the
	// collection is empty or was never written.
	ReadCollection(ctx context.Context) ([]vocab.Item, error)

	// WriteCollection replaces the stored collection with items.
	WriteCollection(ctx context.Context, items []vocab.Item) error
}

// Updater is implemented by collections that can run a read-modify-write
// atomically. fn receives the current items (empty when none exist) and
// returns the items to store.
type Updater interface {
	UpdateCollection(ctx context.Context, fn func([]vocab.Item) ([]vocab.Item, error)) error
}

// SettingsRepo stores string settings by key.
type SettingsRepo interface {
	// ReadSetting returns the value for key and whether it was set.
	ReadSetting(ctx context.Context, key string) (string, bool, error)

	// WriteSetting stores value under key.
	WriteSetting(ctx context.Context, key, value string) error
}

// PracticeEventData captures one graded answer.
type PracticeEventData struct {
	SessionID  string
	Term       string
	Kind       vocab.Kind
	Correct    bool
	CounterSum int
	Graduated  bool
}

// PracticeEvent is a stored PracticeEventData with its ordering fields.
type PracticeEvent struct {
	PracticeEventData
	Sequence  int64
	Timestamp time.Time
}

// KindStats summarises answers for one practice kind.
type KindStats struct {
	Attempts  int
	Correct   int
	Graduated int
}

// Accuracy returns the share of correct answers, or 0 with no attempts.
func (k KindStats) Accuracy() float64 {
	if k.Attempts == 0 {
		return 0
	}
	return float64(k.Correct) / float64(k.Attempts)
}

// EventRepo provides append access to practice events.
type EventRepo interface {
	// AppendPracticeEvent records a graded answer.
	AppendPracticeEvent(ctx context.Context, data PracticeEventData) error

	// RecentEvents returns up to limit events, newest first.
	RecentEvents(ctx context.Context, limit int) ([]PracticeEvent, error)

	// KindAccuracy aggregates all events by kind.
	KindAccuracy(ctx context.Context) (map[vocab.Kind]KindStats, error)
}

// Backend bundles the repositories one persistence provider offers.
// Events may return nil when the backend keeps no event log.
type Backend interface {
	Collection() CollectionRepo
	Settings() SettingsRepo
	Events() EventRepo
	Close() error
}

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*RedisStore)(nil)
)
