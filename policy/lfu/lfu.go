// Package lfu implements a Least-Frequently-Used eviction policy.
//
// Keys are grouped into per-frequency buckets. The victim is the oldest key
// of the lowest-frequency bucket, so ties fall back to LRU order.
package lfu

import (
	"github.com/IvanBrykalov/imagecache/list"
	"github.com/IvanBrykalov/imagecache/policy"
	"github.com/lightningnetwork/lnd/fn/v2"
)

type entry struct {
	freq int
	h    list.Handle
}

type lfu[K comparable, V any] struct {
	entries map[K]*entry
	buckets map[int]*list.List[K] // freq -> keys, least recent at head
	minFreq int
}

// New returns an empty LFU policy.
func New[K comparable, V any]() policy.Policy[K, V] {
	return &lfu[K, V]{
		entries: make(map[K]*entry),
		buckets: make(map[int]*list.List[K]),
	}
}

func (p *lfu[K, V]) NextKeyToEvict() fn.Option[K] {
	if len(p.entries) == 0 {
		return fn.None[K]()
	}
	b := p.buckets[p.minFreq]
	h, ok := b.Front()
	if !ok {
		return fn.None[K]()
	}
	k, _ := b.Value(h)
	return fn.Some(k)
}

// AddKey admits k with frequency 1. A tracked key counts as one more use.
func (p *lfu[K, V]) AddKey(k K, _ V) {
	if e, ok := p.entries[k]; ok {
		p.increment(k, e)
		return
	}
	p.entries[k] = &entry{freq: 1, h: p.bucket(1).PushBack(k)}
	p.minFreq = 1
}

func (p *lfu[K, V]) HeatKey(k K) {
	if e, ok := p.entries[k]; ok {
		p.increment(k, e)
	}
}

// RemoveKey stops tracking k. Removing the last key of the minimum
// frequency rescans the buckets, O(distinct frequencies); every other
// operation is O(1).
func (p *lfu[K, V]) RemoveKey(k K) {
	e, ok := p.entries[k]
	if !ok {
		return
	}
	delete(p.entries, k)
	if p.detach(e) && p.minFreq == e.freq {
		p.recomputeMinFreq()
	}
}

func (p *lfu[K, V]) RemoveAllKeys() {
	clear(p.entries)
	clear(p.buckets)
	p.minFreq = 0
}

func (p *lfu[K, V]) Len() int { return len(p.entries) }

// Frequency returns the use count recorded for k.
func (p *lfu[K, V]) Frequency(k K) int {
	if e, ok := p.entries[k]; ok {
		return e.freq
	}
	return 0
}

func (p *lfu[K, V]) bucket(freq int) *list.List[K] {
	b, ok := p.buckets[freq]
	if !ok {
		b = list.New[K]()
		p.buckets[freq] = b
	}
	return b
}

// detach unlinks e from its bucket and reports whether the bucket emptied.
func (p *lfu[K, V]) detach(e *entry) bool {
	b := p.buckets[e.freq]
	b.Remove(e.h)
	if b.Len() > 0 {
		return false
	}
	delete(p.buckets, e.freq)
	return true
}

func (p *lfu[K, V]) increment(k K, e *entry) {
	if p.detach(e) && p.minFreq == e.freq {
		p.minFreq = e.freq + 1
	}
	e.freq++
	e.h = p.bucket(e.freq).PushBack(k)
}

// recomputeMinFreq scans the live buckets. Only explicit removals of the
// last minimum-frequency key get here, and the scan is bounded by the number
// of distinct frequencies, not by the number of keys.
func (p *lfu[K, V]) recomputeMinFreq() {
	p.minFreq = 0
	for f := range p.buckets {
		if p.minFreq == 0 || f < p.minFreq {
			p.minFreq = f
		}
	}
}
