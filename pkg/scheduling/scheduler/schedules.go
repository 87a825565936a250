package scheduler

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// intervalSchedule fires every d without rounding.
type intervalSchedule time.Duration

func (s intervalSchedule) Next(t time.Time) time.Time {
	return t.Add(time.Duration(s))
}

// onceSchedule fires at a single instant. The zero time tells cron the entry
// never runs again.
type onceSchedule struct {
	at    time.Time
	fired atomic.Bool
}

func (s *onceSchedule) Next(time.Time) time.Time {
	if s.fired.Swap(true) {
		return time.Time{}
	}
	return s.at
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
