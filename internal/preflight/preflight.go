package preflight

import (
	"context"

	"lectern/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Working directories (always checked)
	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	// Staging holds uploads plus extracted audio, so it fills first.
	results = append(results, CheckDiskSpace("Staging disk space", cfg.Paths.StagingDir))

	// Notes API
	if cfg.NotesEnabled() {
		results = append(results, CheckNotesAPI(ctx, cfg.Notes))
	}

	return results
}
