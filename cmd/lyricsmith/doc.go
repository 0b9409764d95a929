// Command lyricsmith is the operator CLI for LyricSmith.
//
// It runs the server in the foreground (serve), inspects and prunes the song
// database (songs, revisions, usage, cleanup), checks dependencies (doctor),
// and writes a sample configuration (config init).
package main
