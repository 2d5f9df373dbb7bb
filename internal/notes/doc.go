// Package notes turns transcripts and document text into structured study
// notes through an OpenRouter-style chat completions API.
//
// The Generator owns the pieces the pipeline should not: a minimum-interval
// rate limiter in front of the API, a bounded cache of recent results keyed
// by input hash, and truncation of oversized inputs.
package notes
