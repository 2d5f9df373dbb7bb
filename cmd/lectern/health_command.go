package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/ipc"
	"lectern/internal/registry"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check registry database health (schema, integrity, counts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, db, err := collectHealth(cmd.Context(), ctx)
			if err != nil {
				return err
			}

			if jsonMode {
				return writeJSON(cmd, map[string]any{
					"registry": counts,
					"database": db,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database path: %s\n", db.DBPath)
			fmt.Fprintf(out, "Database exists: %s\n", yesNo(db.DatabaseExists))
			fmt.Fprintf(out, "Readable: %s\n", yesNo(db.DatabaseReadable))
			fmt.Fprintf(out, "jobs table present: %s\n", yesNo(db.TableExists))
			fmt.Fprintf(out, "Integrity check: %s\n", yesNo(db.IntegrityCheck))
			if db.Error != "" {
				fmt.Fprintf(out, "Error: %s\n", db.Error)
			}
			fmt.Fprintf(out, "Total: %d\nCreated: %d\nProcessing: %d\nCompleted: %d\nErrored: %d\n",
				counts.Total,
				counts.Created,
				counts.Processing,
				counts.Completed,
				counts.Errored,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonMode, "json", false, "Emit health as JSON")
	return cmd
}

// collectHealth gathers health data through the daemon when reachable and
// queries the database directly otherwise.
func collectHealth(cmdCtx context.Context, ctx *commandContext) (*ipc.RegistryHealthResponse, *ipc.DatabaseHealthResponse, error) {
	if client, err := ipc.Dial(ctx.socketPath()); err == nil {
		defer client.Close()
		counts, err := client.RegistryHealth()
		if err != nil {
			return nil, nil, err
		}
		db, err := client.DatabaseHealth()
		if err != nil {
			return nil, nil, err
		}
		return counts, db, nil
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := registry.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open job registry: %w", err)
	}
	defer store.Close()

	summary, err := store.Health(cmdCtx)
	if err != nil {
		return nil, nil, err
	}
	counts := &ipc.RegistryHealthResponse{
		Total:      summary.Total,
		Created:    summary.Created,
		Processing: summary.Processing,
		Completed:  summary.Completed,
		Errored:    summary.Errored,
	}

	health, checkErr := store.CheckHealth(cmdCtx)
	db := &ipc.DatabaseHealthResponse{
		DBPath:           health.DBPath,
		DatabaseExists:   health.DatabaseExists,
		DatabaseReadable: health.DatabaseReadable,
		TableExists:      health.TableExists,
		IntegrityCheck:   health.IntegrityCheck,
		TotalJobs:        health.TotalJobs,
		Error:            health.Error,
	}
	if checkErr != nil && db.Error == "" {
		db.Error = checkErr.Error()
	}
	return counts, db, nil
}
