package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/internal/config"
	"github.com/vnykmshr/activeflow/internal/logging"
	"github.com/vnykmshr/activeflow/pkg/metrics"
	"github.com/vnykmshr/activeflow/pkg/scheduling/activeobject"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
	"github.com/vnykmshr/activeflow/pkg/sink"
)

// app carries the services shared by every subcommand.
type app struct {
	viper      *viper.Viper
	configPath string

	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Registry
	redis    redis.UniversalClient
	server   *http.Server
}

func newApp() *app {
	return &app{viper: config.NewViper()}
}

func newRootCommand(a *app) *cobra.Command {
	defaults := config.Default()

	root := &cobra.Command{
		Use:           "activeflow",
		Short:         "Serialize, dispatch and partition work on asynchronous engines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.start(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	flags.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", defaults.LogFormat, "log format (json, console)")
	flags.String("metrics-addr", defaults.MetricsAddr, "serve Prometheus metrics on this address")
	flags.String("redis-addr", defaults.Redis.Addr, "publish results to Redis at this address")
	flags.String("redis-channel", defaults.Redis.Channel, "Redis channel results are published to")
	flags.Duration("call-timeout", defaults.CallTimeout, "bound on each synchronous call (0 disables)")

	for key, flag := range map[string]string{
		"log_level":     "log-level",
		"log_format":    "log-format",
		"metrics_addr":  "metrics-addr",
		"redis.addr":    "redis-addr",
		"redis.channel": "redis-channel",
		"call_timeout":  "call-timeout",
	} {
		// The flags are defined above, so binding cannot fail.
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newCounterCommand(a),
		newFactorialCommand(a),
		newASCIICommand(a),
		newScheduleCommand(a),
	)
	return root
}

func (a *app) start(ctx context.Context) error {
	cfg, err := config.Load(a.viper, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewRegistry(a.registry)

	if cfg.MetricsAddr != "" {
		if err := a.serveMetrics(cfg.MetricsAddr); err != nil {
			return err
		}
	}

	if cfg.Redis.Addr != "" {
		a.redis = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{cfg.Redis.Addr}})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			a.logger.Warn("redis unreachable, results will be retried per publish",
				zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
	}

	a.logger.Debug("configuration loaded", zap.Any("config", cfg))
	return nil
}

func (a *app) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return nil
}

// stop releases what start acquired. It runs even when a command fails.
func (a *app) stop() error {
	var errs []error
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, a.server.Shutdown(ctx))
		cancel()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.logger != nil {
		// Sync fails on terminals; the output has been written either way.
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

// engineConfig returns the configuration of a named serial engine.
func (a *app) engineConfig(name string) activeobject.Config {
	return activeobject.Config{
		Name:        name,
		CallTimeout: a.cfg.CallTimeout,
		Logger:      a.logger,
		Metrics:     a.metrics,
	}
}

// resultSink logs every result and, when Redis is configured, publishes it.
func resultSink[V any](a *app, name string) (task.Sink[V], error) {
	sinks := []task.Sink[V]{sink.Log[V](a.logger.Named(name))}
	if a.redis != nil {
		cfg := sink.DefaultRedisConfig(a.cfg.Redis.Channel)
		cfg.Logger = a.logger
		cfg.Metrics = a.metrics
		publish, err := sink.Redis[V](a.redis, cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, publish)
	}
	return sink.Fanout(sinks...), nil
}
