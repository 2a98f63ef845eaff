package cache

import (
	"sync"
	"time"
)

const minSweepInterval = 10 * time.Millisecond

type memoryStore struct {
	mux     sync.RWMutex
	entries map[string]*Entry
	gcTTL   time.Duration
	ticker  *time.Ticker
	done    chan struct{}
	closer  sync.Once
}

func newMemoryStore(gcTTL time.Duration) *memoryStore {
	store := &memoryStore{
		entries: map[string]*Entry{},
		gcTTL:   gcTTL,
		done:    make(chan struct{}),
	}
	if gcTTL > 0 {
		store.ticker = time.NewTicker(sweepInterval(gcTTL))
		go store.gcLoop()
	}
	return store
}

func (s *memoryStore) Get(key string) (*Entry, bool) {
	s.mux.RLock()
	entry, ok := s.entries[key]
	s.mux.RUnlock()
	if ok {
		entry.Touch()
	}
	return entry, ok
}

func (s *memoryStore) Put(key string, entry *Entry) {
	s.mux.Lock()
	s.entries[key] = entry
	s.mux.Unlock()
}

func (s *memoryStore) Delete(key string) {
	s.mux.Lock()
	delete(s.entries, key)
	s.mux.Unlock()
}

func (s *memoryStore) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.entries)
}

func (s *memoryStore) Close() {
	s.closer.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
}

func (s *memoryStore) gcLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.evictIdle()
		}
	}
}

func (s *memoryStore) evictIdle() {
	s.mux.Lock()
	defer s.mux.Unlock()
	for key, entry := range s.entries {
		if time.Since(entry.LastAccess()) >= s.gcTTL {
			delete(s.entries, key)
		}
	}
}

func sweepInterval(gcTTL time.Duration) time.Duration {
	interval := gcTTL / 2
	if interval > time.Minute {
		return time.Minute
	}
	if interval < minSweepInterval {
		return minSweepInterval
	}
	return interval
}
