// Package transcribe turns extracted audio into time-coded transcripts.
//
// Two backends are available: a whisper.cpp style command line tool that
// writes a JSON file next to the input audio, and an OpenAI-compatible HTTP
// API that accepts multipart uploads. Both produce the same Transcript shape
// so callers never care which one ran.
package transcribe
