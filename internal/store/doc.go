// Package store persists songs, revisions, voice generations, and API usage
// in SQLite.
//
// The Store owns the database connection, schema initialization, and busy
// retry handling. Lookups return nil, nil when a row does not exist so callers
// decide how a miss is reported. The api_usage table doubles as the sliding
// window log for the sqlite rate limiter backend.
//
// Schema changes bump schemaVersion in schema.go; an older database is
// refused at open time and must be removed.
package store
