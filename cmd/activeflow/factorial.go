package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/pkg/compute/factorial"
	"github.com/vnykmshr/activeflow/pkg/scheduling/partition"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
	"github.com/vnykmshr/activeflow/pkg/scheduling/workerpool"
	"github.com/vnykmshr/activeflow/pkg/sink"
)

func newFactorialCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factorial N",
		Short: "Compute N! by multiplying partitions of [1, N] on a worker pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid N %q: %w", args[0], err)
			}

			pool, err := workerpool.NewSafe(workerpool.Config{
				Name:        "factorial",
				WorkerCount: a.cfg.Workers,
				Logger:      a.logger,
				Metrics:     a.metrics,
			})
			if err != nil {
				return err
			}
			defer func() { <-pool.Shutdown() }()

			p := factorial.NewPartitioner(pool,
				partition.Config{Name: "factorial", Logger: a.logger, Metrics: a.metrics})

			publish, err := resultSink[int64](a, "factorial")
			if err != nil {
				return err
			}
			c := make(chan task.Result[int64], 1)
			factorial.ComputeAsync(cmd.Context(), p, n, sink.Fanout(publish, sink.Channel(c)))

			res := <-c
			if res.Err != nil {
				return res.Err
			}
			a.logger.Debug("factorial computed",
				zap.Int("n", n),
				zap.Int("partitions", len(p.Partitions(factorial.Bounds(n)))),
				zap.Duration("duration", res.Duration))
			fmt.Fprintln(cmd.OutOrStdout(), res.Value)
			return nil
		},
	}

	cmd.Flags().Int("workers", 4, "worker pool size")
	// Defined above, so binding cannot fail.
	_ = a.viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}
