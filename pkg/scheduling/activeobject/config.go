package activeobject

import (
	"time"

	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/pkg/common/validation"
	"github.com/vnykmshr/activeflow/pkg/metrics"
)

// Config holds configuration options for an Engine.
type Config struct {
	// Name labels the engine in logs and metrics.
	Name string

	// CallTimeout bounds every Call in addition to the caller's context.
	// Zero means Call waits as long as its context allows.
	CallTimeout time.Duration

	// Logger receives lifecycle and fault events. Nil disables logging.
	Logger *zap.Logger

	// Metrics records task and queue metrics. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name: "engine",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validation.ValidateNotEmpty("activeobject", "Name", c.Name); err != nil {
		return err
	}
	return validation.ValidateTimeout("activeobject", "CallTimeout", c.CallTimeout)
}
