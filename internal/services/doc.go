// Package services defines shared utilities consumed by the pipeline stage
// handlers and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (fatal vs partial-result) uniform across stages.
//   - Thin abstractions that make command execution against external tools
//     testable.
//
// Use these helpers when wiring new stage logic so operational behaviour
// stays consistent across the pipeline.
package services
