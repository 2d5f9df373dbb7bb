// Package daemon coordinates the long-running lectern process and system
// integration points.
//
// It wires configuration, the job registry, and the pipeline orchestrator
// into a single lifecycle with flock-based locking to prevent multiple
// instances. The daemon accepts job submissions (staging local uploads into
// its own directory), exposes registry queries for the IPC and HTTP
// surfaces, emits dependency health summaries, and serves the read-only
// HTTP API with Prometheus metrics.
//
// Keep orchestration logic here: individual processing stages live in their
// respective packages while the daemon focuses on startup, shutdown, and
// admission of new work.
package daemon
