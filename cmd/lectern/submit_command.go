package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/api"
	"lectern/internal/ipc"
	"lectern/internal/registry"
)

const submitPollInterval = 500 * time.Millisecond

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var action string
	var owner string
	var plan string
	var wait bool
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "submit <path|url>",
		Short: "Submit a file or URL for processing",
		Long: "Submit registers a new job with the daemon. Local files are copied into\n" +
			"the staging area, so the original can be moved or deleted immediately.\n" +
			"The action type is inferred from the input unless --action is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			if input == "" {
				return errors.New("input path or URL is required")
			}
			if !strings.Contains(input, "://") {
				abs, err := filepath.Abs(input)
				if err != nil {
					return fmt.Errorf("resolve path: %w", err)
				}
				input = abs
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Submit(ipc.SubmitRequest{
					Input:  input,
					Action: action,
					Owner:  owner,
					Plan:   plan,
				})
				if err != nil {
					return err
				}
				if resp == nil {
					return errors.New("empty response from daemon")
				}

				job := resp.Job
				if !wait {
					if jsonMode {
						return writeJSON(cmd, job)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Submitted job %s (%s)\n", shortJobID(job.ID), formatStatusLabel(job.ActionType))
					return nil
				}

				final, err := waitForJob(cmd.Context(), client, job.ID, cmd)
				if err != nil {
					return err
				}
				if jsonMode {
					return writeJSON(cmd, final)
				}
				if final.Status == string(registry.StatusError) {
					return fmt.Errorf("job %s failed: %s", shortJobID(final.ID), final.ErrorMessage)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Job %s completed\n", shortJobID(final.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Action type (media_upload, media_url, document_upload); inferred when empty")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner identity for entitlement checks")
	cmd.Flags().StringVar(&plan, "plan", "", "Plan name; falls back to the configured default")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the job reaches a terminal state")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Emit the job as JSON")
	return cmd
}

// waitForJob polls the daemon until the job completes or errors, echoing
// progress transitions as they happen.
func waitForJob(ctx context.Context, client *ipc.Client, id string, cmd *cobra.Command) (api.Job, error) {
	lastProgress := ""
	ticker := time.NewTicker(submitPollInterval)
	defer ticker.Stop()

	for {
		resp, err := client.JobDescribe(id)
		if err != nil {
			return api.Job{}, err
		}
		job := resp.Job
		if job.Progress != "" && job.Progress != lastProgress {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", formatStatusLabel(job.Progress))
			lastProgress = job.Progress
		}
		switch job.Status {
		case string(registry.StatusCompleted), string(registry.StatusError):
			return job, nil
		}

		select {
		case <-ctx.Done():
			return api.Job{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
