package store

import (
	"context"
	"fmt"
	"time"
)

// RecordUsage appends one request timestamp for (client, endpoint).
func (s *Store) RecordUsage(ctx context.Context, client, endpoint string, at time.Time) error {
	_, err := s.execWithRetry(ctx,
		"INSERT INTO api_usage (ip_address, endpoint, timestamp) VALUES (?, ?, ?)",
		client, endpoint, at.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// CountUsage counts the timestamps for (client, endpoint) strictly newer
// than since.
func (s *Store) CountUsage(ctx context.Context, client, endpoint string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT COUNT(1) FROM api_usage WHERE ip_address = ? AND endpoint = ? AND timestamp > ?",
		client, endpoint, since.UnixMilli(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count usage: %w", err)
	}
	return count, nil
}

// PurgeUsage deletes usage rows older than before and returns how many went.
func (s *Store) PurgeUsage(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM api_usage WHERE timestamp < ?", before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge usage: %w", err)
	}
	return res.RowsAffected()
}

// UsageStats counts requests per endpoint newer than since.
func (s *Store) UsageStats(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT endpoint, COUNT(1) FROM api_usage WHERE timestamp > ? GROUP BY endpoint",
		since.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("usage stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var (
			endpoint string
			count    int
		)
		if err := rows.Scan(&endpoint, &count); err != nil {
			return nil, err
		}
		stats[endpoint] = count
	}
	return stats, rows.Err()
}

// Counts returns the number of stored songs, revisions, and voice generations.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ensureContext(ctx), `SELECT
		(SELECT COUNT(1) FROM songs),
		(SELECT COUNT(1) FROM revisions),
		(SELECT COUNT(1) FROM voice_generations)`,
	).Scan(&c.Songs, &c.Revisions, &c.VoiceGenerations)
	if err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return c, nil
}
