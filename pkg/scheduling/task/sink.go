package task

// Sink receives results. Sinks are invoked from worker goroutines and must be
// safe for that; they should hand slow work off rather than block the worker.
type Sink[V any] func(Result[V])

// Deliver invokes s with r if s is not nil.
func (s Sink[V]) Deliver(r Result[V]) {
	if s != nil {
		s(r)
	}
}

// Fanout composes independent sinks into one. Nil sinks are skipped and each
// sink sees every result in delivery order.
func Fanout[V any](sinks ...Sink[V]) Sink[V] {
	live := make([]Sink[V], 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(r Result[V]) {
		for _, s := range live {
			s(r)
		}
	}
}
