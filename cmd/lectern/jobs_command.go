package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/api"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs in the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.openJobSession()
			if err != nil {
				return err
			}
			defer session.Close()

			jobs, err := session.Access.List(cmd.Context(), listStatuses)
			if err != nil {
				return err
			}

			if jsonMode {
				if jobs == nil {
					jobs = []api.Job{}
				}
				return writeJSON(cmd, jobs)
			}

			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs in the registry")
				return nil
			}

			table := renderTable(
				[]string{"ID", "Action", "Status", "Input", "Owner", "Created"},
				buildJobListRows(jobs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by job status (repeatable)")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Emit jobs as JSON")
	return cmd
}
