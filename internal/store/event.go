package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordiz/internal/vocab"
)

// sequenceCounter manages the global monotonic sequence number assigned to
// practice events. Row IDs are not enough once events are pruned or
// copied between databases; the sequence stays strictly increasing for
// the lifetime of the file.
//
// Uses raw SQL because the ent builder has no atomic counter primitive.
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on SQLite.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendPracticeEvent(ctx context.Context, data PracticeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableEvents).
		Columns(colSequence, colTimestamp, colSessionID, colTerm, colKind, colCorrect, colCounterSum, colGraduated).
		Values(seqNum, time.Now().UTC(), nullable(data.SessionID), data.Term, string(data.Kind), data.Correct, data.CounterSum, data.Graduated).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save practice event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentEvents(ctx context.Context, limit int) ([]PracticeEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(colSequence, colTimestamp, colSessionID, colTerm, colKind, colCorrect, colCounterSum, colGraduated).
		From(entsql.Table(tableEvents)).
		OrderBy(entsql.Desc(colSequence))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query practice events: %w", err)
	}
	defer rows.Close()

	var events []PracticeEvent
	for rows.Next() {
		var (
			e       PracticeEvent
			session sql.NullString
			kind    string
		)
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &session, &e.Term, &kind, &e.Correct, &e.CounterSum, &e.Graduated); err != nil {
			return nil, fmt.Errorf("scan practice event: %w", err)
		}
		e.SessionID = session.String
		e.Kind = vocab.Kind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) KindAccuracy(ctx context.Context) (map[vocab.Kind]KindStats, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(colKind, entsql.Count("*"), entsql.Sum(colCorrect), entsql.Sum(colGraduated)).
		From(entsql.Table(tableEvents)).
		GroupBy(colKind).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query kind accuracy: %w", err)
	}
	defer rows.Close()

	stats := make(map[vocab.Kind]KindStats)
	for rows.Next() {
		var (
			kind string
			ks   KindStats
		)
		if err := rows.Scan(&kind, &ks.Attempts, &ks.Correct, &ks.Graduated); err != nil {
			return nil, fmt.Errorf("scan kind accuracy: %w", err)
		}
		stats[vocab.Kind(kind)] = ks
	}
	return stats, rows.Err()
}
