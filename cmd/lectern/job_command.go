package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newJobCommand(ctx *commandContext) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "job <id>",
		Short: "Show details for a single job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])

			session, err := ctx.openJobSession()
			if err != nil {
				return err
			}
			defer session.Close()

			job, err := session.Access.Describe(cmd.Context(), id)
			if err != nil {
				return err
			}
			if job == nil {
				if jsonMode {
					return writeJSON(cmd, map[string]string{"error": "not_found"})
				}
				return fmt.Errorf("job %s not found", id)
			}

			if jsonMode {
				return writeJSON(cmd, job)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %s\n", job.ID)
			fmt.Fprintf(out, "  Action:   %s\n", formatStatusLabel(job.ActionType))
			fmt.Fprintf(out, "  Status:   %s\n", formatStatusLabel(job.Status))
			if job.Progress != "" {
				fmt.Fprintf(out, "  Progress: %s\n", formatStatusLabel(job.Progress))
			}
			if job.Owner != "" {
				ownerLine := job.Owner
				if job.Plan != "" {
					ownerLine = fmt.Sprintf("%s (plan: %s)", job.Owner, job.Plan)
				}
				fmt.Fprintf(out, "  Owner:    %s\n", ownerLine)
			}
			if job.Input != "" {
				fmt.Fprintf(out, "  Input:    %s\n", job.Input)
			}
			if job.CreatedAt != "" {
				fmt.Fprintf(out, "  Created:  %s\n", formatDisplayTime(job.CreatedAt))
			}
			if job.UpdatedAt != "" {
				fmt.Fprintf(out, "  Updated:  %s\n", formatDisplayTime(job.UpdatedAt))
			}
			if job.ErrorMessage != "" {
				fmt.Fprintf(out, "  Error:    %s\n", job.ErrorMessage)
			}
			if len(job.Result) > 0 {
				var pretty map[string]any
				if err := json.Unmarshal(job.Result, &pretty); err == nil && len(pretty) > 0 {
					fmt.Fprintln(out, "  Result:")
					for _, line := range resultLines(pretty) {
						fmt.Fprintf(out, "    %s\n", line)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonMode, "json", false, "Emit the job as JSON")
	return cmd
}

// resultLines flattens a result payload into sorted "key: value" lines.
// Nested structures render as compact JSON so nothing gets hidden.
func resultLines(result map[string]any) []string {
	keys := make([]string, 0, len(result))
	for key := range result {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		value := result[key]
		switch v := value.(type) {
		case string:
			lines = append(lines, fmt.Sprintf("%s: %s", key, v))
		case float64:
			if v == float64(int64(v)) {
				lines = append(lines, fmt.Sprintf("%s: %d", key, int64(v)))
			} else {
				lines = append(lines, fmt.Sprintf("%s: %g", key, v))
			}
		case bool:
			lines = append(lines, fmt.Sprintf("%s: %s", key, yesNo(v)))
		default:
			if raw, err := json.Marshal(v); err == nil {
				lines = append(lines, fmt.Sprintf("%s: %s", key, string(raw)))
			}
		}
	}
	return lines
}
