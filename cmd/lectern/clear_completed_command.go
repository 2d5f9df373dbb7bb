package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCompletedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove completed jobs from the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.openJobSession()
			if err != nil {
				return err
			}
			defer session.Close()

			removed, err := session.Access.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed jobs\n", removed)
			return nil
		},
	}
}
