// Package api defines the request and response types of the HTTP API and
// the SongService that carries out each operation.
//
// # Key Types
//
// Request DTOs carry `validate` tags checked by the server's validation gate
// before a handler runs, so SongService methods can assume well-formed input.
// Response DTOs use camelCase JSON tags for browser consumers.
//
// # Errors
//
// SongService methods return *services.Error values with a client-facing code
// and message. Provider failures are classified by their sentinel markers
// (configuration, rate limiting, unavailability) into the AI_* codes; any
// other failure becomes the operation's generic 500 code.
//
// # Design Notes
//
// Writing a revision and updating its song are two separate statements with
// no transaction around them. A failed song update leaves the revision row in
// place.
package api
