// Package lru implements the LRU eviction policy.
package lru

import (
	"github.com/IvanBrykalov/imagecache/list"
	"github.com/IvanBrykalov/imagecache/policy"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// lru is a classic Least-Recently-Used policy.
// The recency list runs from LRU at the head to MRU at the tail; the index
// maps each key to its node so that every operation is O(1).
type lru[K comparable, V any] struct {
	order *list.List[K]
	index map[K]list.Handle
}

// New returns an empty LRU policy.
func New[K comparable, V any]() policy.Policy[K, V] {
	return &lru[K, V]{
		order: list.New[K](),
		index: make(map[K]list.Handle),
	}
}

// NextKeyToEvict peeks at the head of the recency list.
func (p *lru[K, V]) NextKeyToEvict() fn.Option[K] {
	h, ok := p.order.Front()
	if !ok {
		return fn.None[K]()
	}
	k, _ := p.order.Value(h)
	return fn.Some(k)
}

// AddKey places k at MRU. A tracked key is promoted instead.
func (p *lru[K, V]) AddKey(k K, _ V) {
	if h, ok := p.index[k]; ok {
		p.order.MoveToBack(h)
		return
	}
	p.index[k] = p.order.PushBack(k)
}

// HeatKey promotes k to MRU.
func (p *lru[K, V]) HeatKey(k K) {
	if h, ok := p.index[k]; ok {
		p.order.MoveToBack(h)
	}
}

// RemoveKey unlinks k's node.
func (p *lru[K, V]) RemoveKey(k K) {
	h, ok := p.index[k]
	if !ok {
		return
	}
	p.order.Remove(h)
	delete(p.index, k)
}

// RemoveAllKeys drops the whole recency list.
func (p *lru[K, V]) RemoveAllKeys() {
	p.order.Clear()
	clear(p.index)
}

// Len returns the number of tracked keys.
func (p *lru[K, V]) Len() int { return len(p.index) }

// Keys returns tracked keys from least to most recently used.
func (p *lru[K, V]) Keys() []K { return p.order.Values() }
