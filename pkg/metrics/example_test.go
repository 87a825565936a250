package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Example_basicUsage demonstrates recording task executions.
func Example_basicUsage() {
	registry := NewRegistry(prometheus.NewRegistry())

	registry.TaskSubmitted("counter")
	registry.TaskSubmitted("counter")
	registry.ObserveTask("counter", 3*time.Millisecond, nil)
	registry.ObserveTask("counter", time.Millisecond, errors.New("boom"))

	fmt.Println(testutil.ToFloat64(registry.TasksSubmitted.WithLabelValues("counter")))
	fmt.Println(testutil.ToFloat64(registry.TasksExecuted.WithLabelValues("counter")))
	fmt.Println(testutil.ToFloat64(registry.TasksFailed.WithLabelValues("counter")))

	// Output:
	// 2
	// 2
	// 1
}

// Example_configuration demonstrates different metrics configurations.
func Example_configuration() {
	defaultConfig := DefaultConfig()
	fmt.Printf("Default enabled: %v\n", defaultConfig.Enabled)
	fmt.Printf("Default namespace: %s\n", defaultConfig.Namespace)

	disabled := Config{Enabled: false, Namespace: "myapp"}
	fmt.Printf("Disabled registry is nil: %v\n", disabled.Build() == nil)

	// Output:
	// Default enabled: true
	// Default namespace: activeflow
	// Disabled registry is nil: true
}

// Example_nilRegistry shows that recording on a nil registry is a no-op.
func Example_nilRegistry() {
	var registry *Registry
	registry.TaskSubmitted("engine")
	registry.ObserveAggregate("factorial", 4, nil)
	fmt.Println("no panic")

	// Output:
	// no panic
}
