package logger

import (
	"os"
	"time"
)

//Adapter dispatches logging events to an optional Logger, absent callbacks are no-ops
type Adapter struct {
	log             Log
	requestBuilt    RequestBuilt
	cacheProbe      CacheProbe
	dispatched      Dispatched
	optionsResolved OptionsResolved
}

func (l *Adapter) Log(message string, args ...interface{}) {
	if l.log == nil {
		return
	}

	l.log(message, args...)
}

func (l *Adapter) RequestBuilt(mode, url string) {
	if l.requestBuilt == nil {
		return
	}

	l.requestBuilt(mode, url)
}

func (l *Adapter) CacheProbe(key string, hit bool) {
	if l.cacheProbe == nil {
		return
	}

	l.cacheProbe(key, hit)
}

func (l *Adapter) Dispatched(duration time.Duration, url string, statusCode int, err error) {
	if l.dispatched == nil {
		return
	}

	l.dispatched(duration, url, statusCode, err)
}

func (l *Adapter) OptionsResolved(filterID string, count int, err error) {
	if l.optionsResolved == nil {
		return
	}

	l.optionsResolved(filterID, count, err)
}

func NewLogger(logger Logger) *Adapter {
	if logger == nil {
		return &Adapter{}
	}

	return &Adapter{
		log:             logger.Log(),
		requestBuilt:    logger.RequestBuilt(),
		cacheProbe:      logger.CacheProbe(),
		dispatched:      logger.Dispatched(),
		optionsResolved: logger.OptionsResolved(),
	}
}

func Default() *Adapter {
	if os.Getenv("FBQUERY_DEBUG") == "" {
		return NewLogger(nil)
	}
	return NewLogger(&defaultLogger{})
}
