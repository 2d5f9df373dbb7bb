// Package logs reads the daemon log file for the CLI.
//
// The daemon writes slog JSON lines to a single file; Tail serves both the
// one-shot "last N lines" read and the follow loop behind `lectern logs -f`.
// Offsets are byte positions into the file, so a follow client hands the
// previous response's offset back and receives only new lines.
package logs
