// Package artifacts owns the durable per-job output files: transcript,
// notes in two renditions, and the four aligned-notes exports. File names
// are derived from the job id, which lets the registry rebuild lost rows by
// probing for them.
package artifacts
