// Package api defines wire-format types and converters for the IPC and HTTP
// API layer. It translates registry models into transport-friendly DTOs so
// the CLI and remote consumers can render job state without coupling to
// internal types.
//
// # Key Types
//
// Job: transport representation of a registry job with progress, billing
// state, and the structured result payload.
//
// PipelineStatus: orchestrator running state, job stats, and last job.
//
// DaemonStatus: aggregated runtime information including dependency checks.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Internal
// enums (registry.Status, registry.ActionType) are exposed as lowercase
// strings. Timestamps use RFC3339 with milliseconds. Result payloads are
// passed through as json.RawMessage to avoid double-encoding.
package api
