package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/activeflow/pkg/compute/asciiart"
	"github.com/vnykmshr/activeflow/pkg/scheduling/halfsync"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
	"github.com/vnykmshr/activeflow/pkg/sink"
)

func newASCIICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ascii IMAGE OUT [IMAGE OUT]...",
		Short: "Render images as text through the notification dispatcher",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected IMAGE OUT pairs, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := runASCII(cmd.Context(), a, cmd.OutOrStdout(), args)
			if err != nil {
				return err
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d conversion(s) failed", summary.Failed, summary.Delivered)
			}
			return nil
		},
	}
}

// runASCII converts each IMAGE OUT pair in one drain session and returns
// the session summary.
func runASCII(ctx context.Context, a *app, out io.Writer, pairs []string) (halfsync.Summary[bool], error) {
	publish, err := resultSink[bool](a, "ascii")
	if err != nil {
		return halfsync.Summary[bool]{}, err
	}

	tasks := make([]task.Task[bool], 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		tasks = append(tasks, asciiart.Task(pairs[i], pairs[i+1]))
	}

	done := make(chan halfsync.Summary[bool], 1)
	// Results arrive in submission order on the engine goroutine.
	next := 0
	printResult := func(r task.Result[bool]) {
		in := pairs[2*next]
		next++
		if r.Err != nil {
			fmt.Fprintf(out, "%s: failed: %v\n", in, r.Err)
			return
		}
		fmt.Fprintf(out, "%s: converted\n", in)
	}

	d, err := halfsync.NewSafe(a.engineConfig("ascii"), halfsync.Hooks[bool]{
		OnResult: sink.Fanout(printResult, publish),
		OnDone: func(s halfsync.Summary[bool]) {
			fmt.Fprintf(out, "session %d done: %d converted, %d failed\n",
				s.Session, s.Delivered-s.Failed, s.Failed)
			done <- s
		},
	})
	if err != nil {
		return halfsync.Summary[bool]{}, err
	}
	defer func() { _ = d.Shutdown(context.Background()) }()

	if _, err := d.SubmitAll(tasks...); err != nil {
		return halfsync.Summary[bool]{}, err
	}

	select {
	case s := <-done:
		return s, nil
	case <-ctx.Done():
		return halfsync.Summary[bool]{}, ctx.Err()
	}
}
