// Package preflight provides readiness checks for the external binaries,
// filesystem paths, and remote services lectern depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll and CheckSystemDeps at startup and logs any
//     failures so a misconfigured install is visible before the first job.
//   - The CLI "lectern status" command renders the same results so users can
//     diagnose a host without reading daemon logs.
//
// Checks gated by a config toggle (notes API, whisper binary) are skipped
// when the feature is disabled.
package preflight
