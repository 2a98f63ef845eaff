package logger

import (
	"time"
)

type Log func(message string, args ...interface{})
type RequestBuilt func(mode, url string)
type CacheProbe func(key string, hit bool)
type Dispatched func(duration time.Duration, url string, statusCode int, err error)
type OptionsResolved func(filterID string, count int, err error)

type Logger interface {
	RequestBuilt() RequestBuilt
	CacheProbe() CacheProbe
	Dispatched() Dispatched
	OptionsResolved() OptionsResolved
	Log() Log
}
