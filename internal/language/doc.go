// Package language normalizes the language identifiers reported by
// transcription backends. Local whisper tools emit ISO 639-1 codes while
// hosted APIs may return English names like "english"; both resolve to the
// same canonical code and display name.
package language
