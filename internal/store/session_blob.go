package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sessionRepo implements SessionRepo over the session_blobs table.
type sessionRepo struct {
	db  *sql.DB
	sql *entsql.DialectBuilder
}

func (r *sessionRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := r.sql.Select("value").
		From(r.sql.Table(sessionBlobsTable)).
		Where(entsql.EQ("id", key)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get session blob %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (r *sessionRepo) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("put session blob: empty key")
	}
	query, args := r.sql.Insert(sessionBlobsTable).
		Columns("id", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put session blob %q: %w", key, err)
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, key string) error {
	query, args := r.sql.Delete(sessionBlobsTable).
		Where(entsql.EQ("id", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete session blob %q: %w", key, err)
	}
	return nil
}
