package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordiz/internal/logger"
	"github.com/abhisek/wordiz/internal/vocab"
)

// insertBatch bounds the rows per INSERT so a statement stays under
// SQLite's host parameter limit.
const insertBatch = 500

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// itemRepo implements CollectionRepo and Updater on SQLite.
type itemRepo struct {
	db  *sql.DB
	log *logger.Logger
}

func (r *itemRepo) ReadCollection(ctx context.Context) ([]vocab.Item, error) {
	items, err := readItems(ctx, r.db, r.log)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items, nil
}

func (r *itemRepo) WriteCollection(ctx context.Context, items []vocab.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	if err := replaceItems(ctx, tx, items); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}
	return nil
}

func (r *itemRepo) UpdateCollection(ctx context.Context, fn func([]vocab.Item) ([]vocab.Item, error)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	current, err := readItems(ctx, tx, r.log)
	if err != nil {
		tx.Rollback()
		return err
	}
	next, err := fn(current)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := replaceItems(ctx, tx, next); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

func readItems(ctx context.Context, q querier, log *logger.Logger) ([]vocab.Item, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(colTerm, colTranslation, colExampleSentence, colCurriculumID, colCreatedAt, colCounters).
		From(entsql.Table(tableItems)).
		OrderBy(entsql.Asc(colCreatedAt), entsql.Asc(colTerm)).
		Query()

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []vocab.Item
	for rows.Next() {
		var (
			it         vocab.Item
			example    sql.NullString
			curriculum sql.NullString
			counters   string
		)
		if err := rows.Scan(&it.Term, &it.Translation, &example, &curriculum, &it.CreatedAt, &counters); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.ExampleSentence = example.String
		it.CurriculumItemID = curriculum.String
		if counters != "" {
			// A corrupt counter blob resets that item's progress rather
			// than hiding the item.
			if err := json.Unmarshal([]byte(counters), &it.Counters); err != nil {
				log.Warn("resetting unreadable counters", "term", it.Term, "error", err)
				it.Counters = nil
			}
		}
		it.EnsureCounters()
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func replaceItems(ctx context.Context, q querier, items []vocab.Item) error {
	b := entsql.Dialect(dialect.SQLite)

	query, args := b.Delete(tableItems).Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(items))
	rows := make([]vocab.Item, 0, len(items))
	for _, it := range items {
		if seen[it.Term] {
			continue
		}
		seen[it.Term] = true
		rows = append(rows, it)
	}

	for start := 0; start < len(rows); start += insertBatch {
		end := min(start+insertBatch, len(rows))
		insert := b.Insert(tableItems).
			Columns(colTerm, colTranslation, colExampleSentence, colCurriculumID, colCreatedAt, colCounters)
		for _, it := range rows[start:end] {
			counters, err := json.Marshal(it.Counters)
			if err != nil {
				return fmt.Errorf("marshal counters for %q: %w", it.Term, err)
			}
			created := it.CreatedAt
			if created.IsZero() {
				created = time.Now().UTC()
			}
			insert.Values(it.Term, it.Translation, nullable(it.ExampleSentence), nullable(it.CurriculumItemID), created, string(counters))
		}
		query, args = insert.Query()
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert items %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
