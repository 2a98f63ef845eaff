package cache

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

//Store providers
const (
	ProviderMemory    = "memory"
	ProviderRistretto = "ristretto"
)

//Entry is one cached query outcome, either a value or an error, never both.
//Err keeps the string form served to callers, failure keeps the typed error
//for in process classification.
type Entry struct {
	Value   interface{}
	Err     string
	Created time.Time

	failure    error
	lastAccess int64
}

//NewEntry creates a value entry
func NewEntry(value interface{}) *Entry {
	entry := &Entry{Value: value, Created: time.Now()}
	entry.Touch()
	return entry
}

//NewErrorEntry creates an error entry
func NewErrorEntry(err error) *Entry {
	entry := &Entry{Err: err.Error(), failure: err, Created: time.Now()}
	entry.Touch()
	return entry
}

//Touch records an access for idle eviction
func (e *Entry) Touch() {
	atomic.StoreInt64(&e.lastAccess, time.Now().UnixNano())
}

//LastAccess returns the most recent access time
func (e *Entry) LastAccess() time.Time {
	return time.Unix(0, atomic.LoadInt64(&e.lastAccess))
}

//IsFresh returns true while the entry age is within ttl
func (e *Entry) IsFresh(ttl time.Duration) bool {
	return time.Since(e.Created) < ttl
}

//Failure returns the entry error if any
func (e *Entry) Failure() error {
	if e.failure != nil {
		return e.failure
	}
	if e.Err != "" {
		return errors.New(e.Err)
	}
	return nil
}

//Store keeps entries by key with provider owned eviction
type Store interface {
	Get(key string) (*Entry, bool)
	Put(key string, entry *Entry)
	Delete(key string)
	Close()
}

//NewStore creates a store for the given provider, an empty provider selects
//the in process memory store. Entries idle for gcTTL are evicted.
func NewStore(provider string, gcTTL time.Duration) (Store, error) {
	switch provider {
	case "", ProviderMemory:
		return newMemoryStore(gcTTL), nil
	case ProviderRistretto:
		return newRistrettoStore(gcTTL)
	}
	return nil, errors.Errorf("unsupported cache provider: %v", provider)
}
