// Package preflight provides readiness checks for the services and
// filesystem paths LyricSmith depends on.
//
// The server runs RunAll once at startup and logs failures as warnings; the
// CLI "doctor" command prints every result. Each check is gated by its config
// toggle so disabled features are reported without being probed.
package preflight
