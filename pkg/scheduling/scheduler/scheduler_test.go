package scheduler

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/vnykmshr/activeflow/internal/testutil"
	"github.com/vnykmshr/activeflow/pkg/common/errors"
	"github.com/vnykmshr/activeflow/pkg/metrics"
)

func newScheduler(t *testing.T, mutate ...func(*Config)) *Scheduler {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Logger = zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	for _, m := range mutate {
		m(&cfg)
	}

	s := New(cfg)
	s.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func counting(n *int64) Job {
	return func(context.Context) error {
		atomic.AddInt64(n, 1)
		return nil
	}
}

func TestValidate(t *testing.T) {
	valid := []string{"* * * * *", "*/5 * * * * *", "0 30 9 * * 1-5", "@hourly", "@every 1m30s"}
	for _, spec := range valid {
		assert.NoError(t, Validate(spec), spec)
	}

	invalid := []string{"", "not a cron", "61 * * * *", "@every nope"}
	for _, spec := range invalid {
		err := Validate(spec)
		assert.Error(t, err, spec)
		assert.True(t, errors.IsValidationError(err), spec)
	}
}

func TestScheduleValidation(t *testing.T) {
	s := newScheduler(t)
	noop := func(context.Context) error { return nil }

	assert.Error(t, s.Schedule("", "@hourly", noop))
	assert.Error(t, s.Schedule(string(make([]byte, 256)), "@hourly", noop))
	assert.Error(t, s.Schedule("nil job", "@hourly", nil))
	assert.Error(t, s.Schedule("bad spec", "bogus", noop))
	assert.Error(t, s.ScheduleRepeating("zero", 0, noop))

	require.NoError(t, s.Schedule("hourly", "@hourly", noop))
	err := s.Schedule("hourly", "@daily", noop)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "already scheduled")
}

func TestScheduleRepeating(t *testing.T) {
	s := newScheduler(t)

	var executed int64
	require.NoError(t, s.ScheduleRepeating("repeat", 20*time.Millisecond, counting(&executed)))

	testutil.Eventually(t, func() bool {
		return atomic.LoadInt64(&executed) >= 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestScheduleAfterRunsOnce(t *testing.T) {
	s := newScheduler(t)

	var executed int64
	require.NoError(t, s.ScheduleAfter("once", 10*time.Millisecond, counting(&executed)))

	testutil.WaitForInt64(t, &executed, 1, time.Second)
	testutil.Eventually(t, func() bool { return len(s.Entries()) == 0 }, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&executed))
}

func TestMaxRuns(t *testing.T) {
	s := newScheduler(t)

	var executed int64
	require.NoError(t, s.Add("capped", intervalSchedule(5*time.Millisecond), counting(&executed), Options{MaxRuns: 3}))

	testutil.WaitForInt64(t, &executed, 3, time.Second)
	testutil.Eventually(t, func() bool { return len(s.Entries()) == 0 }, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int64(3), atomic.LoadInt64(&executed))
}

func TestFailuresAreReportedAndCounted(t *testing.T) {
	reg := metrics.NewRegistry(prometheus.NewRegistry())
	s := newScheduler(t, func(c *Config) {
		c.Name = "failing"
		c.Metrics = reg
	})

	boom := stderrors.New("boom")
	reported := make(chan error, 1)
	require.NoError(t, s.Add("fails", intervalSchedule(5*time.Millisecond), func(context.Context) error {
		return boom
	}, Options{
		StopOnError: true,
		OnError: func(id string, err error) {
			assert.Equal(t, "fails", id)
			reported <- err
		},
	}))

	select {
	case err := <-reported:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("OnError not called")
	}

	testutil.Eventually(t, func() bool { return len(s.Entries()) == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, promtest.ToFloat64(reg.ScheduledFailures.WithLabelValues("failing")))
}

func TestPanickingJobIsContained(t *testing.T) {
	s := newScheduler(t)

	reported := make(chan error, 1)
	require.NoError(t, s.Add("panics", intervalSchedule(5*time.Millisecond), func(context.Context) error {
		panic("job bug")
	}, Options{StopOnError: true, OnError: func(_ string, err error) { reported <- err }}))

	select {
	case err := <-reported:
		assert.ErrorIs(t, err, errors.ErrTaskExecutionFailed)
	case <-time.After(time.Second):
		t.Fatal("panic not reported")
	}
}

func TestRemoveAndEntries(t *testing.T) {
	s := newScheduler(t)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Schedule("b", "@hourly", noop))
	require.NoError(t, s.Schedule("a", "0 0 9 * * *", noop))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "0 0 9 * * *", entries[0].Spec)
	assert.Equal(t, "b", entries[1].ID)

	next, err := s.Next("b")
	require.NoError(t, err)
	assert.True(t, next.After(time.Now()))

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))
	_, err = s.Next("b")
	assert.Error(t, err)

	s.RemoveAll()
	assert.Empty(t, s.Entries())
}

func TestFinishedRunKeepsReplacementJob(t *testing.T) {
	s := newScheduler(t)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.ScheduleAfter("job", 0, func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	require.True(t, s.Remove("job"))
	var executed int64
	require.NoError(t, s.ScheduleRepeating("job", 5*time.Millisecond, counting(&executed)))
	close(release)

	atLeast := func(n int64) func() bool {
		return func() bool { return atomic.LoadInt64(&executed) >= n }
	}
	testutil.Eventually(t, atLeast(3), testutil.TestTimeout, time.Millisecond)
	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "job", entries[0].ID)

	// Still firing after the earlier run has retired.
	testutil.Eventually(t, atLeast(atomic.LoadInt64(&executed)+3), testutil.TestTimeout, time.Millisecond)
}

func TestStopCancelsRunningJobs(t *testing.T) {
	s := New(DefaultConfig())
	s.Start()

	started := make(chan struct{})
	var once atomic.Bool
	require.NoError(t, s.ScheduleAfter("long", 0, func(ctx context.Context) error {
		if once.CompareAndSwap(false, true) {
			close(started)
		}
		<-ctx.Done()
		return ctx.Err()
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Stop(ctx), context.DeadlineExceeded)
}

func TestWithRetry(t *testing.T) {
	var attempts int64
	job := WithRetry(func(context.Context) error {
		if atomic.AddInt64(&attempts, 1) < 3 {
			return stderrors.New("transient")
		}
		return nil
	}, backoff.NewConstantBackOff(time.Millisecond), 5)

	require.NoError(t, job(context.Background()))
	assert.Equal(t, int64(3), atomic.LoadInt64(&attempts))

	atomic.StoreInt64(&attempts, 0)
	failing := WithRetry(func(context.Context) error {
		atomic.AddInt64(&attempts, 1)
		return stderrors.New("always")
	}, backoff.NewConstantBackOff(time.Millisecond), 2)

	assert.Error(t, failing(context.Background()))
	assert.Equal(t, int64(2), atomic.LoadInt64(&attempts))
}
