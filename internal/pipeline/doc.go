// Package pipeline drains created jobs from the registry through a bounded
// worker pool. Each job runs as one sequential pass over its stages: acquire
// the input, check the owner's entitlement, extract audio, transcribe,
// generate notes, align notes to timestamps, and charge usage. Validation,
// acquisition, and transcription failures fail the job; notes, alignment,
// and billing failures degrade the result and the job still completes.
package pipeline
