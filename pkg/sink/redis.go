package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	ctxutil "github.com/vnykmshr/activeflow/pkg/common/context"
	"github.com/vnykmshr/activeflow/pkg/common/validation"
	"github.com/vnykmshr/activeflow/pkg/metrics"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// Publisher is the subset of redis.UniversalClient used by the Redis sink.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

var _ Publisher = redis.UniversalClient(nil)

// Message is the JSON document published for each result.
type Message struct {
	TaskID      string      `json:"task_id"`
	Value       interface{} `json:"value,omitempty"`
	Error       string      `json:"error,omitempty"`
	DurationMS  float64     `json:"duration_ms"`
	WorkerID    int         `json:"worker_id"`
	PublishedAt time.Time   `json:"published_at"`
}

// NewMessage converts r into a Message.
func NewMessage[V any](r task.Result[V]) Message {
	m := Message{
		TaskID:      r.TaskID.String(),
		DurationMS:  float64(r.Duration) / float64(time.Millisecond),
		WorkerID:    r.WorkerID,
		PublishedAt: time.Now().UTC(),
	}
	if r.Err != nil {
		m.Error = r.Err.Error()
	} else {
		m.Value = r.Value
	}
	return m
}

// RedisConfig configures a Redis sink.
type RedisConfig struct {
	// Name labels the sink in logs and metrics.
	Name string

	// Channel is the Redis pub/sub channel results are published to.
	Channel string

	// Timeout bounds the publication of one result, retries included.
	Timeout time.Duration

	// MaxTries caps publish attempts per result.
	MaxTries uint

	// BackOff paces retries. Nil means exponential backoff.
	BackOff func() backoff.BackOff

	// Logger receives publish failures. Nil disables logging.
	Logger *zap.Logger

	// Metrics counts deliveries and failures. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultRedisConfig returns a RedisConfig publishing to channel.
func DefaultRedisConfig(channel string) RedisConfig {
	return RedisConfig{
		Name:     "redis",
		Channel:  channel,
		Timeout:  2 * time.Second,
		MaxTries: 3,
	}
}

// Redis returns a sink that publishes every result as a JSON Message.
// Failed publications are retried; a result that still cannot be published
// is logged and counted, and the worker moves on.
func Redis[V any](client Publisher, config RedisConfig) (task.Sink[V], error) {
	if client == nil {
		return nil, validation.ValidateNotNil("sink", "client", nil)
	}
	if err := validation.ValidateNotEmpty("sink", "Channel", config.Channel); err != nil {
		return nil, err
	}
	if err := validation.ValidateTimeout("sink", "Timeout", config.Timeout); err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = "redis"
	}
	if config.MaxTries == 0 {
		config.MaxTries = 1
	}
	if config.BackOff == nil {
		config.BackOff = func() backoff.BackOff { return backoff.NewExponentialBackOff() }
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(config.Name)

	return func(r task.Result[V]) {
		err := publish(client, config, NewMessage(r))
		config.Metrics.ObserveSink(config.Name, err)
		if err != nil {
			logger.Error("failed to publish result",
				zap.Stringer("task_id", r.TaskID),
				zap.String("channel", config.Channel),
				zap.Error(err))
		}
	}, nil
}

func publish(client Publisher, config RedisConfig, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	_, err = backoff.Retry(ctx, func() (int64, error) {
		return client.Publish(ctx, config.Channel, payload).Result()
	}, backoff.WithBackOff(config.BackOff()), backoff.WithMaxTries(config.MaxTries))
	return err
}
