// Package config loads the activeflow command configuration from a YAML
// file, ACTIVEFLOW_ environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ACTIVEFLOW"

// Config holds the command configuration.
type Config struct {
	LogLevel    string        `mapstructure:"log_level" default:"info" validate:"oneof=debug info warn error"`
	LogFormat   string        `mapstructure:"log_format" default:"console" validate:"oneof=json console"`
	MetricsAddr string        `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
	CallTimeout time.Duration `mapstructure:"call_timeout" default:"5s" validate:"gte=0"`
	Workers     int           `mapstructure:"workers" default:"4" validate:"gte=1,lte=1024"`
	Redis       RedisConfig   `mapstructure:"redis"`
}

// RedisConfig configures publication of results to Redis. Publication is
// disabled while Addr is empty.
type RedisConfig struct {
	Addr    string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Channel string `mapstructure:"channel" default:"activeflow.results" validate:"required"`
}

// Keys lists every configuration key, in viper's dotted form.
var Keys = []string{
	"log_level",
	"log_format",
	"metrics_addr",
	"call_timeout",
	"workers",
	"redis.addr",
	"redis.channel",
}

var validate = validator.New()

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	var c Config
	defaults.MustSet(&c)
	return c
}

// NewViper returns a viper instance reading ACTIVEFLOW_ variables, so that
// redis.addr is read from ACTIVEFLOW_REDIS_ADDR.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range Keys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the optional YAML file at path through v, overlays the
// settings v knows about on Default and validates the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	c := Default()
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every field, reporting the first violation as a
// *errors.ValidationError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return errors.NewValidationError("config", fe.Namespace(), fe.Value(),
			fmt.Sprintf("failed %q constraint", fe.Tag()))
	}
	return err
}
