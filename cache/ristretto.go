package cache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	ristrettoCounters = 100000
	ristrettoMaxCost  = 10000
	ristrettoBuffers  = 64
)

//ristrettoStore adapts a shared admission based cache. Admission is
//probabilistic and writes become visible asynchronously, so the store waits
//after each put; eviction rides on the cache TTL instead of a janitor.
type ristrettoStore struct {
	cache *ristretto.Cache[string, *Entry]
	gcTTL time.Duration
}

func newRistrettoStore(gcTTL time.Duration) (*ristrettoStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Entry]{
		NumCounters: ristrettoCounters,
		MaxCost:     ristrettoMaxCost,
		BufferItems: ristrettoBuffers,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoStore{cache: cache, gcTTL: gcTTL}, nil
}

func (s *ristrettoStore) Get(key string) (*Entry, bool) {
	entry, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry.Touch()
	return entry, true
}

func (s *ristrettoStore) Put(key string, entry *Entry) {
	if s.gcTTL > 0 {
		s.cache.SetWithTTL(key, entry, 1, s.gcTTL)
	} else {
		s.cache.Set(key, entry, 1)
	}
	s.cache.Wait()
}

func (s *ristrettoStore) Delete(key string) {
	s.cache.Del(key)
}

func (s *ristrettoStore) Close() {
	s.cache.Close()
}
