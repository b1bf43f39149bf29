// Package singleflight coalesces concurrent loads of the same cache key.
package singleflight

import (
	"context"
	"errors"
	"sync"
)

// ErrPanicked is returned to followers when the leader's fn panicked. The
// leader itself re-panics.
var ErrPanicked = errors.New("singleflight: fn panicked")

// Group runs at most one fn per key at a time. Callers arriving while a call
// is in flight wait for its result instead of starting their own.
//
// The first caller for a key is the leader and runs fn with its own context.
// A follower whose ctx ends stops waiting and returns ctx.Err(); the leader
// keeps going. The zero Group is ready to use.
type Group[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*call[V]
}

type call[V any] struct {
	done    chan struct{} // closed once val/err are set
	val     V
	err     error
	waiters int
}

// Do runs fn for key unless a call is already in flight, and returns its
// result. shared reports whether the result was handed to more than one
// caller.
func (g *Group[K, V]) Do(ctx context.Context, key K,
	fn func(context.Context) (V, error)) (v V, shared bool, err error) {

	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[K]*call[V])
	}
	if c, ok := g.calls[key]; ok {
		c.waiters++
		g.mu.Unlock()

		select {
		case <-c.done:
			return c.val, true, c.err
		case <-ctx.Done():
			var zero V
			return zero, false, ctx.Err()
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	normal := false
	defer func() {
		if !normal {
			var zero V
			c.val, c.err = zero, ErrPanicked
		}
		g.mu.Lock()
		delete(g.calls, key)
		shared = c.waiters > 0
		g.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn(ctx)
	normal = true

	return c.val, shared, c.err
}

// InFlight reports whether a call for key is currently running.
func (g *Group[K, V]) InFlight(key K) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.calls[key]
	return ok
}
