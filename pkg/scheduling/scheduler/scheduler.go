package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	ctxutil "github.com/vnykmshr/activeflow/pkg/common/context"
	"github.com/vnykmshr/activeflow/pkg/common/errors"
	"github.com/vnykmshr/activeflow/pkg/common/validation"
	"github.com/vnykmshr/activeflow/pkg/metrics"
)

// Job is the work run on every tick, typically a Dispatcher submission.
type Job func(ctx context.Context) error

// Options tune a single scheduled job.
type Options struct {
	// MaxRuns removes the job after this many runs. Zero means unlimited.
	MaxRuns int

	// StopOnError removes the job after its first failure.
	StopOnError bool

	// OnError is called when a run fails.
	OnError func(id string, err error)
}

// Entry describes a scheduled job.
type Entry struct {
	ID   string
	Spec string
	Next time.Time
	Prev time.Time
	Runs int
}

// Config holds scheduler configuration.
type Config struct {
	// Name labels the scheduler in logs and metrics.
	Name string

	// Location is the time zone cron expressions are evaluated in.
	// Nil means time.Local.
	Location *time.Location

	// JobTimeout bounds each run. Zero means no timeout.
	JobTimeout time.Duration

	// SkipIfStillRunning skips a tick while the previous run of the same
	// job is still in progress.
	SkipIfStillRunning bool

	// Logger receives run failures. Nil disables logging.
	Logger *zap.Logger

	// Metrics records runs and failures. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:               "scheduler",
		SkipIfStillRunning: true,
	}
}

// Parser accepts an optional seconds field and descriptors such as
// "@every 5s" or "@hourly".
var Parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type entry struct {
	id      string
	spec    string
	cronID  cron.EntryID
	options Options

	mu   sync.Mutex
	runs int
}

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	name       string
	jobTimeout time.Duration
	logger     *zap.Logger
	metrics    *metrics.Registry
	cron       *cron.Cron

	// ctx is handed to running jobs and cancelled when Stop gives up.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates a scheduler. It panics if the configuration is invalid.
func New(config Config) *Scheduler {
	s, err := NewSafe(config)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSafe creates a scheduler, returning an error if the configuration is
// invalid.
func NewSafe(config Config) (*Scheduler, error) {
	if err := validation.ValidateNotEmpty("scheduler", "Name", config.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateTimeout("scheduler", "JobTimeout", config.JobTimeout); err != nil {
		return nil, err
	}

	location := config.Location
	if location == nil {
		location = time.Local
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(config.Name)

	cl := cronLogger{logger.Sugar()}
	opts := []cron.Option{
		cron.WithParser(Parser),
		cron.WithLocation(location),
		cron.WithLogger(cl),
	}
	if config.SkipIfStillRunning {
		opts = append(opts, cron.WithChain(cron.SkipIfStillRunning(cl)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		name:       config.Name,
		jobTimeout: config.JobTimeout,
		logger:     logger,
		metrics:    config.Metrics,
		cron:       cron.New(opts...),
		ctx:        ctx,
		cancel:     cancel,
		entries:    make(map[string]*entry),
	}, nil
}

// Validate reports whether spec is an acceptable cron expression.
func Validate(spec string) error {
	if _, err := Parser.Parse(spec); err != nil {
		return errors.NewValidationError("scheduler", "spec", spec, err.Error()).
			WithHint(`use "[sec] min hour dom month dow" or a descriptor such as "@every 1m"`)
	}
	return nil
}

// Schedule runs job on the cron expression spec.
func (s *Scheduler) Schedule(id, spec string, job Job) error {
	return s.ScheduleWithOptions(id, spec, job, Options{})
}

// ScheduleWithOptions runs job on the cron expression spec with options.
func (s *Scheduler) ScheduleWithOptions(id, spec string, job Job, options Options) error {
	if err := Validate(spec); err != nil {
		return err
	}
	schedule, _ := Parser.Parse(spec)
	return s.add(id, spec, schedule, job, options)
}

// ScheduleRepeating runs job every interval, starting one interval from now.
// Unlike "@every", interval is not rounded to whole seconds.
func (s *Scheduler) ScheduleRepeating(id string, interval time.Duration, job Job) error {
	if interval <= 0 {
		return errors.NewValidationError("scheduler", "interval", interval, "must be positive")
	}
	return s.add(id, "@interval "+interval.String(), intervalSchedule(interval), job, Options{})
}

// ScheduleAfter runs job once, after delay.
func (s *Scheduler) ScheduleAfter(id string, delay time.Duration, job Job) error {
	at := time.Now().Add(delay)
	return s.add(id, "@at "+at.Format(time.RFC3339Nano), &onceSchedule{at: at}, job, Options{MaxRuns: 1})
}

// Add runs job on an arbitrary schedule.
func (s *Scheduler) Add(id string, schedule cron.Schedule, job Job, options Options) error {
	if schedule == nil {
		return validation.ValidateNotNil("scheduler", "schedule", nil)
	}
	return s.add(id, fmt.Sprintf("%T", schedule), schedule, job, options)
}

func (s *Scheduler) add(id, spec string, schedule cron.Schedule, job Job, options Options) error {
	if id == "" {
		return errors.NewValidationError("scheduler", "id", id, "cannot be empty")
	}
	if len(id) > 255 {
		return errors.NewValidationError("scheduler", "id", id, "too long (max 255 characters)")
	}
	if job == nil {
		return validation.ValidateNotNil("scheduler", "job", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		return errors.NewValidationError("scheduler", "id", id, "already scheduled").
			WithHint("use a different ID or remove the existing job first")
	}

	e := &entry{id: id, spec: spec, options: options}
	e.cronID = s.cron.Schedule(schedule, cron.FuncJob(func() { s.run(e, job) }))
	s.entries[id] = e
	return nil
}

// Remove unschedules id. It reports whether the job existed.
func (s *Scheduler) Remove(id string) bool {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if ok {
		s.cron.Remove(e.cronID)
	}
	return ok
}

// RemoveAll unschedules every job.
func (s *Scheduler) RemoveAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range entries {
		s.cron.Remove(e.cronID)
	}
}

// Next returns the next run time of id.
func (s *Scheduler) Next(id string) (time.Time, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return time.Time{}, fmt.Errorf("scheduler: no job with ID %q", id)
	}
	return s.cron.Entry(e.cronID).Next, nil
}

// Entries lists scheduled jobs ordered by ID.
func (s *Scheduler) Entries() []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		ce := s.cron.Entry(e.cronID)
		e.mu.Lock()
		out = append(out, Entry{ID: e.id, Spec: e.spec, Next: ce.Next, Prev: ce.Prev, Runs: e.runs})
		e.mu.Unlock()
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Debug("scheduler started")
}

// Stop halts the scheduler and waits for running jobs. If ctx ends first,
// running jobs see their context cancelled and ctx.Err() is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()

	select {
	case <-stopped.Done():
		s.cancel()
		s.logger.Debug("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		<-stopped.Done()
		s.logger.Warn("scheduler stop timed out, running jobs cancelled", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

func (s *Scheduler) run(e *entry, job Job) {
	ctx, cancel := ctxutil.WithTimeout(s.ctx, s.jobTimeout)
	defer cancel()

	err := invoke(ctx, job)
	s.metrics.ObserveScheduled(s.name, err)

	e.mu.Lock()
	e.runs++
	runs := e.runs
	e.mu.Unlock()

	if err != nil {
		s.logger.Warn("scheduled job failed", zap.String("job_id", e.id), zap.Int("run", runs), zap.Error(err))
		if e.options.OnError != nil {
			e.options.OnError(e.id, err)
		}
		if e.options.StopOnError {
			s.retire(e)
			return
		}
	}

	if e.options.MaxRuns > 0 && runs >= e.options.MaxRuns {
		s.retire(e)
	}
}

// retire unschedules e. A newer job registered under the same ID is left alone.
func (s *Scheduler) retire(e *entry) {
	s.mu.Lock()
	if s.entries[e.id] == e {
		delete(s.entries, e.id)
	}
	s.mu.Unlock()

	s.cron.Remove(e.cronID)
}

func invoke(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewPanicError(uuid.New(), r, debug.Stack())
		}
	}()
	return job(ctx)
}
