package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/pkg/common/validation"
	"github.com/vnykmshr/activeflow/pkg/metrics"
	"github.com/vnykmshr/activeflow/pkg/scheduling/queue"
)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Result represents the result of a task execution.
type Result struct {
	// TaskID is the id returned by Submit.
	TaskID uuid.UUID

	// Task is the original task that was executed
	Task Task

	// Error is nil on success. Task faults match errors.ErrTaskExecutionFailed;
	// tasks cancelled by shutdown carry errors.ErrQueueClosed.
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task, or -1 if none did.
	WorkerID int
}

// Pool represents a worker pool that can execute tasks concurrently.
type Pool interface {
	// Submit queues task for execution and returns its id. ctx is passed to
	// the task. done, if not nil, receives exactly one Result for every
	// accepted task. Submit never blocks on a busy pool.
	Submit(ctx context.Context, task Task, done func(Result)) (uuid.UUID, error)

	// Shutdown initiates a graceful shutdown of the pool.
	// No new tasks will be accepted, but queued tasks will be completed.
	// Returns a channel that closes when shutdown is complete.
	Shutdown() <-chan struct{}

	// ShutdownWithTimeout shuts down the pool with a timeout.
	// If shutdown doesn't complete within the timeout, queued tasks are
	// cancelled with errors.ErrQueueClosed and running tasks see their
	// context cancelled.
	ShutdownWithTimeout(timeout time.Duration) <-chan struct{}

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the current number of queued tasks waiting for execution.
	QueueSize() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks submitted to the pool.
	TotalSubmitted() int64

	// TotalCompleted returns the total number of tasks completed by the pool.
	TotalCompleted() int64
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// Name labels the pool in logs and metrics.
	Name string

	// WorkerCount is the number of workers in the pool.
	// Must be greater than 0.
	WorkerCount int

	// TaskTimeout is the default timeout for individual task execution.
	// Zero means no timeout.
	TaskTimeout time.Duration

	// PanicHandler is called when a task panics, before the panic is
	// reported as a failed Result.
	PanicHandler func(task Task, recovered interface{})

	// OnWorkerStart is called when a worker starts.
	// Useful for per-worker initialization (e.g., database connections).
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker stops.
	// Useful for per-worker cleanup.
	OnWorkerStop func(workerID int)

	// OnTaskStart is called before a task begins execution.
	OnTaskStart func(workerID int, task Task)

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(workerID int, result Result)

	// Logger receives worker and task fault events. Nil disables logging.
	Logger *zap.Logger

	// Metrics records pool and task metrics. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultConfig returns a Config with four workers and no task timeout.
func DefaultConfig() Config {
	return Config{
		Name:        "pool",
		WorkerCount: 4,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validation.ValidatePositive("workerpool", "WorkerCount", c.WorkerCount); err != nil {
		return err
	}
	return validation.ValidateTimeout("workerpool", "TaskTimeout", c.TaskTimeout)
}

// submission is a task waiting in the queue.
type submission struct {
	id   uuid.UUID
	ctx  context.Context
	task Task
	done func(Result)
}

// workerPool implements the Pool interface.
type workerPool struct {
	config  Config
	logger  *zap.Logger
	metrics *metrics.Registry

	// Core pool state
	queue        *queue.Queue[submission]
	shutdownOnce sync.Once
	done         chan struct{}

	// ctx is cancelled when a timed shutdown gives up on running tasks.
	ctx    context.Context
	cancel context.CancelFunc

	// State tracking
	activeWorkers  atomic.Int64
	totalSubmitted atomic.Int64
	totalCompleted atomic.Int64

	// Worker management
	workerWg sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
func New(workerCount int) Pool {
	config := DefaultConfig()
	config.WorkerCount = workerCount
	return NewWithConfig(config)
}

// NewWithConfig creates a new worker pool with the specified configuration.
// It panics if the configuration is invalid.
func NewWithConfig(config Config) Pool {
	pool, err := NewSafe(config)
	if err != nil {
		panic(err)
	}
	return pool
}

// NewSafe creates a new worker pool, returning an error if the configuration
// is invalid.
func NewSafe(config Config) (Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = DefaultConfig().Name
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool := &workerPool{
		config:  config,
		logger:  logger.Named(config.Name),
		metrics: config.Metrics,
		queue:   queue.New[submission](),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}

	// Create and start workers
	pool.workerWg.Add(config.WorkerCount)
	for i := 0; i < config.WorkerCount; i++ {
		w := &worker{id: i, pool: pool}
		go w.run()
	}
	pool.updateMetrics()

	return pool, nil
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return p.config.WorkerCount
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *workerPool) QueueSize() int {
	return p.queue.Len()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *workerPool) ActiveWorkers() int {
	return int(p.activeWorkers.Load())
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *workerPool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalCompleted returns the total number of tasks completed by the pool.
func (p *workerPool) TotalCompleted() int64 {
	return p.totalCompleted.Load()
}
