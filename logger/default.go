package logger

import (
	"fmt"
	"time"
)

type defaultLogger struct {
}

func (d *defaultLogger) Log() Log {
	return func(message string, args ...interface{}) {
		fmt.Printf("[FBQUERY] "+message+" \n", args...)
	}
}

func (d *defaultLogger) RequestBuilt() RequestBuilt {
	return func(mode, url string) {
		fmt.Printf("[FBQUERY] compiled %v request, url: %v \n", mode, url)
	}
}

func (d *defaultLogger) CacheProbe() CacheProbe {
	return func(key string, hit bool) {
		fmt.Printf("[FBQUERY] cache probe key: %v, hit: %v \n", key, hit)
	}
}

func (d *defaultLogger) Dispatched() Dispatched {
	return func(duration time.Duration, url string, statusCode int, err error) {
		fmt.Printf("[FBQUERY] dispatch took %v, url: %v, status: %v, err: %v \n", duration, url, statusCode, err)
	}
}

func (d *defaultLogger) OptionsResolved() OptionsResolved {
	return func(filterID string, count int, err error) {
		fmt.Printf("[FBQUERY] filter %v options resolved: %v, err: %v \n", filterID, count, err)
	}
}
