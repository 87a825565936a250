package main

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/pkg/scheduling/activeobject"
	"github.com/vnykmshr/activeflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

func newScheduleCommand(a *app) *cobra.Command {
	var (
		spec  string
		count int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Increment a counter on a cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			got, err := runSchedule(cmd.Context(), a, cmd.OutOrStdout(), spec, count)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), got)
			return nil
		},
	}

	cmd.Flags().StringVar(&spec, "spec", "@every 1s", "cron expression or descriptor")
	cmd.Flags().IntVar(&count, "count", 5, "number of runs before exiting")
	return cmd
}

// runSchedule increments a counter count times on spec and returns the
// final value.
func runSchedule(ctx context.Context, a *app, out io.Writer, spec string, count int) (int64, error) {
	if count <= 0 {
		return 0, fmt.Errorf("count must be positive, got %d", count)
	}

	engine, err := activeobject.NewSafe(a.engineConfig("schedule"))
	if err != nil {
		return 0, err
	}
	defer func() { _ = engine.Shutdown(context.Background()) }()
	counter := activeobject.NewCounter(engine, 0)

	publish, err := resultSink[int64](a, "schedule")
	if err != nil {
		return 0, err
	}

	sched, err := scheduler.NewSafe(scheduler.Config{
		Name:               "schedule",
		JobTimeout:         a.cfg.CallTimeout,
		SkipIfStillRunning: true,
		Logger:             a.logger,
		Metrics:            a.metrics,
	})
	if err != nil {
		return 0, err
	}

	var runs atomic.Int64
	finished := make(chan struct{})
	job := func(ctx context.Context) error {
		defer func() {
			if runs.Add(1) == int64(count) {
				close(finished)
			}
		}()
		v, err := counter.IncrementAndGet(ctx)
		publish.Deliver(task.Result[int64]{TaskID: uuid.New(), Value: v, Err: err, WorkerID: -1})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "tick %d\n", v)
		return nil
	}

	err = sched.ScheduleWithOptions("increment", spec, job, scheduler.Options{
		MaxRuns: count,
		OnError: func(id string, err error) {
			a.logger.Warn("scheduled increment failed", zap.String("job", id), zap.Error(err))
		},
	})
	if err != nil {
		return 0, err
	}

	sched.Start()
	defer func() { _ = sched.Stop(context.Background()) }()

	select {
	case <-finished:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return counter.Get(ctx)
}
