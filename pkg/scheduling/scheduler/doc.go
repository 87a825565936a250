// Package scheduler feeds work into activeflow engines on a timetable.
//
// It is a thin layer over github.com/robfig/cron/v3. Jobs are plain functions,
// usually a Dispatcher submission:
//
//	s := scheduler.New(scheduler.DefaultConfig())
//	s.Schedule("tick", "@every 1s", func(ctx context.Context) error {
//		_, err := dispatcher.Submit(job)
//		return err
//	})
//	s.Start()
//	defer s.Stop(context.Background())
//
// Cron expressions take an optional leading seconds field and the usual
// descriptors:
//
//	"*/5 * * * * *"   every five seconds
//	"0 30 9 * * 1-5"  9:30 on weekdays
//	"@hourly"         once an hour
//	"@every 1m30s"    every 90 seconds
//
// ScheduleRepeating and ScheduleAfter cover plain intervals and one-shot runs
// without cron syntax. Failed runs are logged and counted in metrics; Options
// can cap the number of runs or drop a job after its first failure, and
// WithRetry retries a job with backoff before the run counts as failed.
package scheduler
