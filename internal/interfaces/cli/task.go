package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/pkg/errors"
)

// NewTaskCmd returns the task lifecycle subcommand tree.
func NewTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage federated computation tasks",
		Long: "Submit, poll, and inspect the remote computation tasks backing the\n" +
			"dashboard workflows (statistics, survival, similarity).",
	}

	cmd.AddCommand(
		newTaskSubmitCmd(),
		newTaskPollCmd(),
		newTaskStatusCmd(),
		newTaskResultCmd(),
	)
	return cmd
}

// parseWorkflowArg validates the positional workflow argument.
func parseWorkflowArg(args []string) (task.Workflow, error) {
	w := task.Workflow(args[0])
	if !w.Valid() {
		return "", fmt.Errorf("unknown workflow %q (expected one of: statistics, survival, similarity)", args[0])
	}
	return w, nil
}

func newTaskSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <workflow>",
		Short: "Submit a workflow's federated task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			w, err := parseWorkflowArg(args)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			handle, err := cliCtx.Service.Submit(ctx, w)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, map[string]interface{}{
				"workflow":   handle.Workflow,
				"task_id":    handle.ID,
				"request_id": handle.RequestID,
			})
		},
	}
}

func newTaskPollCmd() *cobra.Command {
	var (
		wait     bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "poll <workflow>",
		Short: "Poll a workflow's live task",
		Long: "Poll the workflow's live task once.  With --wait, keep polling at the\n" +
			"given interval until the task completes or the timeout elapses.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			w, err := parseWorkflowArg(args)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			for {
				done, err := cliCtx.Service.Poll(ctx, w)
				if err != nil && !errors.IsNotReady(err) {
					return err
				}
				if done || !wait {
					return printResult(cmd, cliCtx, map[string]interface{}{
						"workflow": w,
						"complete": done,
					})
				}
				select {
				case <-ctx.Done():
					return fmt.Errorf("timed out waiting for %s task to complete", w)
				case <-time.After(interval):
				}
			}
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "poll repeatedly until the task completes")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "polling interval with --wait")
	return cmd
}

func newTaskStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <workflow>",
		Short: "Show a workflow's lifecycle state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			w, err := parseWorkflowArg(args)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, cliCtx.Service.Status(w))
		},
	}
}

func newTaskResultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <workflow>",
		Short: "Show a workflow's cached result records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			w, err := parseWorkflowArg(args)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			entry, err := cliCtx.Service.Result(ctx, w)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, map[string]interface{}{
				"workflow":        entry.Workflow,
				"task_id":         entry.TaskID,
				"records":         entry.Records,
				"elapsed_seconds": entry.Seconds(),
			})
		},
	}
}

//Personal.AI order the ending
