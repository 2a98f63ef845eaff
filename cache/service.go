package cache

import (
	"context"
	"sync"
	"time"
)

//Freshness defaults, entries older than the fresh window trigger a reload,
//entries idle past the GC window are evicted by the store.
const (
	DefaultFreshTTL = 5 * time.Minute
	DefaultGCTTL    = 10 * time.Minute
)

//Loader produces a value for a key that has no fresh entry
type Loader func(ctx context.Context) (interface{}, error)

type (
	//Service serves query results by key with at most one outstanding load
	//per key, late callers for an in flight key attach to the pending result.
	Service struct {
		store    Store
		freshTTL time.Duration
		mux      sync.Mutex
		flights  map[string]*flight
	}

	flight struct {
		done  chan struct{}
		value interface{}
		err   error
	}
)

//New creates a cache service over the supplied store
func New(store Store, freshTTL time.Duration) *Service {
	if freshTTL <= 0 {
		freshTTL = DefaultFreshTTL
	}
	return &Service{
		store:    store,
		freshTTL: freshTTL,
		flights:  map[string]*flight{},
	}
}

//Fetch returns a fresh entry value when present, otherwise runs load exactly
//once per key and records its outcome, value or error alike. A cached error
//is an answer, a retry is an explicit Invalidate followed by a fresh Fetch.
func (s *Service) Fetch(ctx context.Context, key string, load Loader) (interface{}, error) {
	if entry, ok := s.store.Get(key); ok && entry.IsFresh(s.freshTTL) {
		return entry.Value, entry.Failure()
	}
	s.mux.Lock()
	if pending, ok := s.flights[key]; ok {
		s.mux.Unlock()
		return s.join(ctx, pending)
	}
	pending := &flight{done: make(chan struct{})}
	s.flights[key] = pending
	s.mux.Unlock()

	pending.value, pending.err = load(ctx)
	if pending.err != nil {
		s.store.Put(key, NewErrorEntry(pending.err))
	} else {
		s.store.Put(key, NewEntry(pending.value))
	}
	s.mux.Lock()
	delete(s.flights, key)
	s.mux.Unlock()
	close(pending.done)
	return pending.value, pending.err
}

func (s *Service) join(ctx context.Context, pending *flight) (interface{}, error) {
	select {
	case <-pending.done:
		return pending.value, pending.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

//Get returns a fresh entry, stale entries count as misses
func (s *Service) Get(key string) (*Entry, bool) {
	entry, ok := s.store.Get(key)
	if !ok || !entry.IsFresh(s.freshTTL) {
		return nil, false
	}
	return entry, true
}

//Put stores a value entry
func (s *Service) Put(key string, value interface{}) {
	s.store.Put(key, NewEntry(value))
}

//PutError stores an error entry
func (s *Service) PutError(key string, err error) {
	s.store.Put(key, NewErrorEntry(err))
}

//Invalidate drops the key
func (s *Service) Invalidate(key string) {
	s.store.Delete(key)
}

//Close releases the underlying store
func (s *Service) Close() {
	s.store.Close()
}
