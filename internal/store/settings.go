package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// settingsRepo implements SettingsRepo on SQLite.
type settingsRepo struct {
	db *sql.DB
}

func (r *settingsRepo) ReadSetting(ctx context.Context, key string) (string, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(colValue).
		From(entsql.Table(tableSettings)).
		Where(entsql.EQ(colName, key)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("read setting %q: %w", key, err)
	}
	return value, true, nil
}

func (r *settingsRepo) WriteSetting(ctx context.Context, key, value string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSettings).
		Columns(colName, colValue).
		Values(key, value).
		OnConflict(
			entsql.ConflictColumns(colName),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}
