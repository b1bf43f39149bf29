// Package fifo implements a First-In-First-Out eviction policy: keys leave in
// the order they arrived and reads never reorder them.
package fifo

import (
	"github.com/IvanBrykalov/imagecache/list"
	"github.com/IvanBrykalov/imagecache/policy"
	"github.com/lightningnetwork/lnd/fn/v2"
)

type fifo[K comparable, V any] struct {
	queue *list.List[K] // oldest at head
	index map[K]list.Handle
}

// New returns an empty FIFO policy.
func New[K comparable, V any]() policy.Policy[K, V] {
	return &fifo[K, V]{
		queue: list.New[K](),
		index: make(map[K]list.Handle),
	}
}

func (p *fifo[K, V]) NextKeyToEvict() fn.Option[K] {
	h, ok := p.queue.Front()
	if !ok {
		return fn.None[K]()
	}
	k, _ := p.queue.Value(h)
	return fn.Some(k)
}

// AddKey enqueues k. A tracked key keeps its queue position.
func (p *fifo[K, V]) AddKey(k K, _ V) {
	if _, ok := p.index[k]; ok {
		return
	}
	p.index[k] = p.queue.PushBack(k)
}

// HeatKey is a no-op: access does not affect FIFO order.
func (p *fifo[K, V]) HeatKey(K) {}

func (p *fifo[K, V]) RemoveKey(k K) {
	if h, ok := p.index[k]; ok {
		p.queue.Remove(h)
		delete(p.index, k)
	}
}

func (p *fifo[K, V]) RemoveAllKeys() {
	p.queue.Clear()
	clear(p.index)
}

func (p *fifo[K, V]) Len() int { return len(p.index) }
