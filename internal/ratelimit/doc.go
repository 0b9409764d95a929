// Package ratelimit implements the sliding-window request limiter.
//
// A Limiter counts the timestamps a Store holds for (client, endpoint) that
// are strictly newer than now minus the policy window. A request is admitted
// while that count is below the policy limit. Policies choose whether the
// check itself is recorded: RecordOnAdmit counts only admitted requests,
// RecordAlways counts rejected ones too so a client that keeps retrying stays
// locked out.
//
// Stores: MemoryStore (single process), SQLiteStore (the api_usage table of
// the song database), and RedisStore (sorted sets shared across processes).
// Stores that implement Purger are trimmed by the Janitor.
package ratelimit
