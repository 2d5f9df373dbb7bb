// Package align maps structured notes back onto transcript timestamps.
//
// The engine is a pure function over its inputs: it parses the notes
// document into heading-delimited sections, extracts candidate phrases per
// section, scores them against not-yet-claimed transcript segments with a
// normalized sequence-match ratio, claims segments greedily in document
// order, and merges each section's claims into contiguous time ranges. The
// result can be exported as JSON, an annotated markdown outline, SRT cues,
// or WebVTT cues.
package align
