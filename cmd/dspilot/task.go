package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/core/ports"
)

var (
	taskWait     bool
	taskInterval time.Duration
)

var taskCmd = &cobra.Command{
	Use:   "task <ref>",
	Short: "Check a registry provisioning task",
	Long: `Task looks up the state of an asynchronous registry task by the
reference returned from submit or retract. With --wait it polls until
the task leaves the pending state.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		logger := buildLogger(cfg)
		client, err := buildClient(cfg, logger)
		if err != nil {
			return err
		}
		return watchTask(cmd.Context(), cmd.OutOrStdout(), client, args[0], taskWait, taskInterval)
	},
}

func init() {
	taskCmd.Flags().BoolVar(&taskWait, "wait", false, "poll until the task completes or fails")
	taskCmd.Flags().DurationVar(&taskInterval, "interval", 5*time.Second, "polling interval with --wait")
}

// watchTask prints the task's state, polling while it stays pending
// when wait is set. A task that ends failed is reported as an error so
// the exit code reflects it.
func watchTask(ctx context.Context, w io.Writer, client ports.RegistryClient, ref string, wait bool, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	for {
		task, err := client.TaskStatus(ctx, ref)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t%s", task.Ref, task.State)
		if task.Detail != "" {
			fmt.Fprintf(w, "\t%s", task.Detail)
		}
		fmt.Fprintln(w)

		if !wait || task.State != domain.TaskPending {
			if task.State == domain.TaskFailed {
				return fmt.Errorf("task %s failed", task.Ref)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
