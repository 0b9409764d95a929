// Package run assembles the LyricSmith server process.
//
// Build wires the configuration into concrete collaborators: the SQLite song
// store, the limiter backend, the lyrics writer (real provider or the mock
// fallback), the speech client, the song service, and the HTTP server. Run
// takes the single-instance lock next to the database, logs preflight
// warnings, then serves until the context is cancelled while the usage
// janitor sweeps in the background.
package run
