package ratelimit

import (
	"context"
	"time"

	"lyricsmith/internal/store"
)

// SQLiteStore keeps timestamps in the api_usage table of the song store.
type SQLiteStore struct {
	db *store.Store
}

// NewSQLiteStore wraps st.
func NewSQLiteStore(st *store.Store) *SQLiteStore {
	return &SQLiteStore{db: st}
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context, key Key, since time.Time) (int, error) {
	return s.db.CountUsage(ctx, key.Client, key.Endpoint, since)
}

// Record implements Store.
func (s *SQLiteStore) Record(ctx context.Context, key Key, at time.Time) error {
	return s.db.RecordUsage(ctx, key.Client, key.Endpoint, at)
}

// Purge implements Purger.
func (s *SQLiteStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	return s.db.PurgeUsage(ctx, before)
}
