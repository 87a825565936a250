// Package halfsync is the notification side of the active object: callers
// hand tasks to a Dispatcher and return at once, while a single worker runs
// them and pushes every result to an OnResult sink.
//
// Results are grouped into drain sessions. A session starts with the first
// submission made while nothing is outstanding and ends when the queue has
// drained and the last result has been delivered; OnDone then receives a
// Summary, exactly once per session and always after the session's final
// OnResult. Both hooks run on the worker goroutine, so they observe results
// in execution order and must not block for long.
//
// Compose several subscribers with task.Fanout or the helpers in pkg/sink:
//
//	d := halfsync.New(activeobject.DefaultConfig(), halfsync.Hooks[bool]{
//		OnResult: task.Fanout(sink.Log[bool](logger), sink.Channel(results)),
//		OnDone: func(s halfsync.Summary[bool]) {
//			fmt.Printf("session %d: %d results\n", s.Session, s.Delivered)
//		},
//	})
//	d.SubmitAll(jobs...)
package halfsync
