package logger

import (
	"github.com/viant/gmetric/counter"
	"time"
)

//Event classifies a counted operation outcome
type Event string

const (
	Pending Event = "Pending"
	Error   Event = "Error"
	Success Event = "Success"
)

//Counter abstracts a gmetric operation counter
type Counter interface {
	Begin(started time.Time) counter.OnDone
	DecrementValue(value interface{}) int64
	IncrementValue(value interface{}) int64
}

//CounterAdapter guards a Counter against nil, absent counters count nothing
type CounterAdapter struct {
	counter Counter
}

func NewCounter(counter Counter) *CounterAdapter {
	return &CounterAdapter{
		counter: counter,
	}
}

func (c *CounterAdapter) Begin(started time.Time) counter.OnDone {
	if c.counter == nil {
		return nopOnDone
	}

	return c.counter.Begin(started)
}

func (c *CounterAdapter) DecrementValue(value interface{}) int64 {
	if c.counter == nil {
		return 0
	}
	return c.counter.DecrementValue(value)
}

func (c *CounterAdapter) IncrementValue(value interface{}) int64 {
	if c.counter == nil {
		return 0
	}
	return c.counter.IncrementValue(value)
}

func nopOnDone(_ time.Time, _ ...interface{}) int64 {
	return 0
}
