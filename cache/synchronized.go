package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/IvanBrykalov/imagecache/internal/singleflight"
)

// Loader fetches a value on cache miss. Used by Synchronized.GetOrLoad.
type Loader[K comparable, V any] func(ctx context.Context, k K) (V, error)

// Synchronized serializes every call on a Cache behind one mutex, so the
// cache can be shared by multiple goroutines. It also adds GetOrLoad, which
// coalesces concurrent loads for the same key.
//
// The wrapped Cache must not be used directly once wrapped.
type Synchronized[K comparable, V any] struct {
	mu sync.Mutex
	c  *Cache[K, V]

	loader Loader[K, V]
	sf     singleflight.Group[K, V]
}

// NewSynchronized wraps c. loader may be nil, in which case GetOrLoad
// returns ErrNoLoader on a miss.
func NewSynchronized[K comparable, V any](c *Cache[K, V], loader Loader[K, V]) *Synchronized[K, V] {
	return &Synchronized[K, V]{c: c, loader: loader}
}

func (s *Synchronized[K, V]) Add(k K, v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Add(k, v)
}

func (s *Synchronized[K, V]) TryAdd(k K, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.TryAdd(k, v)
}

func (s *Synchronized[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Get(k)
}

func (s *Synchronized[K, V]) Peek(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Peek(k)
}

func (s *Synchronized[K, V]) Remove(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Remove(k)
}

func (s *Synchronized[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Clear()
}

func (s *Synchronized[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Len()
}

func (s *Synchronized[K, V]) Size() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Size()
}

func (s *Synchronized[K, V]) SetMaxItems(n uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.SetMaxItems(n)
}

func (s *Synchronized[K, V]) SetMaxSize(n uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.SetMaxSize(n)
}

// GetOrLoad returns the value for k; on miss it runs the Loader once for all
// concurrent callers of the same key and caches the result. A loaded value
// that cannot be cached (e.g. ErrTooLarge) is still returned.
func (s *Synchronized[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	// fast path
	if v, ok := s.Get(k); ok {
		return v, nil
	}
	if s.loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	v, _, err := s.sf.Do(ctx, k, func(ctx context.Context) (V, error) {
		// double-check after winning the flight; the fast path already
		// counted the miss.
		s.mu.Lock()
		v, ok := s.c.Peek(k)
		s.mu.Unlock()
		if ok {
			return v, nil
		}
		v, err := s.loader(ctx, k)
		if err != nil {
			return v, fmt.Errorf("cache: load %v: %w", k, err)
		}
		if err := s.TryAdd(k, v); err != nil {
			log.Debugf("Loaded value for %v not cached: %v", k, err)
		}
		return v, nil
	})
	return v, err
}
