// Package registry persists job lifecycle state in SQLite.
//
// Each job is a single row keyed by an opaque uuid. Status moves forward
// only: created, processing, then one of the terminal states completed or
// error. Updates against unknown ids are logged and dropped rather than
// failing the caller, so pipeline bookkeeping never takes a job down on its
// own. When an id has no row but its output artifacts still exist on disk,
// lookups synthesize a reduced-fidelity recovered row from the artifact
// probe.
package registry
