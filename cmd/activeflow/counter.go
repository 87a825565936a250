package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/pkg/scheduling/activeobject"
)

func newCounterCommand(a *app) *cobra.Command {
	var (
		initial    int64
		goroutines int
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Increment a shared counter from many goroutines through a serial engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			got, err := runCounter(cmd.Context(), a, initial, goroutines, iterations)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), got)
			return nil
		},
	}

	cmd.Flags().Int64Var(&initial, "initial", 10, "initial counter value")
	cmd.Flags().IntVar(&goroutines, "goroutines", 5, "number of concurrent callers")
	cmd.Flags().IntVar(&iterations, "iterations", 10000, "increments per caller")
	return cmd
}

// runCounter increments a counter goroutines*iterations times and returns
// its final value.
func runCounter(ctx context.Context, a *app, initial int64, goroutines, iterations int) (int64, error) {
	engine, err := activeobject.NewSafe(a.engineConfig("counter"))
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := engine.Shutdown(context.Background()); err != nil {
			a.logger.Warn("counter engine shutdown", zap.Error(err))
		}
	}()

	counter := activeobject.NewCounter(engine, initial)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				if _, err := counter.IncrementAndGet(ctx); err != nil {
					once.Do(func() { firstErr = err })
					return
				}
			}
		}()
	}
	wg.Wait()
	if firstErr != nil {
		return 0, firstErr
	}

	a.logger.Info("counter finished",
		zap.Int("goroutines", goroutines),
		zap.Int("iterations", iterations))
	return counter.Get(ctx)
}
