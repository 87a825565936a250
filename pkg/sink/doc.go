// Package sink provides ready-made completion sinks for activeflow results.
//
// A sink is a task.Sink: a function called once per result from the worker
// goroutine that produced it. Sinks compose with Fanout, so one dispatcher can
// log every result and publish it to Redis at once:
//
//	redisSink, err := sink.Redis[int](client, sink.DefaultRedisConfig("results"))
//	if err != nil {
//		return err
//	}
//	onResult := sink.Fanout(sink.Log[int](logger), redisSink)
//
// The Redis sink publishes each result as a JSON Message and retries failed
// publications with exponential backoff.
package sink
