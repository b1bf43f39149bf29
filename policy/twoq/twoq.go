// Package twoq implements the 2Q eviction policy.
package twoq

import (
	"github.com/IvanBrykalov/imagecache/list"
	"github.com/IvanBrykalov/imagecache/policy"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// twoQ keeps two resident queues and one ghost queue:
//   - A1in: first-time keys in FIFO order (oldest at head)
//   - Am:   keys seen at least twice, in LRU order (LRU at head)
//   - A1out (ghosts): keys recently dropped from A1in, without values
//
// A key found in A1out on admission has proven reuse and skips straight to
// Am. Victims come from A1in while it exceeds capIn, otherwise from Am.
type twoQ[K comparable, V any] struct {
	capIn    int
	capGhost int

	in    *list.List[K]
	am    *list.List[K]
	where map[K]slot

	ghosts   *list.List[K]
	ghostIdx map[K]list.Handle
}

type slot struct {
	h    list.Handle
	inA1 bool
}

// New constructs a 2Q policy.
// Common choices: capIn ≈ 25% of MaxItems; capGhost ≈ 50–100% of MaxItems.
func New[K comparable, V any](capIn, capGhost int) policy.Policy[K, V] {
	if capIn < 1 {
		capIn = 1
	}
	if capGhost < 1 {
		capGhost = 1
	}
	return &twoQ[K, V]{
		capIn:    capIn,
		capGhost: capGhost,
		in:       list.New[K](),
		am:       list.New[K](),
		where:    make(map[K]slot),
		ghosts:   list.New[K](),
		ghostIdx: make(map[K]list.Handle),
	}
}

func (q *twoQ[K, V]) NextKeyToEvict() fn.Option[K] {
	src := q.am
	if q.in.Len() > q.capIn || q.am.Len() == 0 {
		src = q.in
	}
	h, ok := src.Front()
	if !ok {
		return fn.None[K]()
	}
	k, _ := src.Value(h)
	return fn.Some(k)
}

// AddKey admission rules:
//   - tracked key: same as HeatKey
//   - ghost key: second chance, admitted directly to Am
//   - otherwise: admitted to A1in
func (q *twoQ[K, V]) AddKey(k K, _ V) {
	if _, ok := q.where[k]; ok {
		q.HeatKey(k)
		return
	}
	if gh, ok := q.ghostIdx[k]; ok {
		q.ghosts.Remove(gh)
		delete(q.ghostIdx, k)
		q.where[k] = slot{h: q.am.PushBack(k)}
		return
	}
	q.where[k] = slot{h: q.in.PushBack(k), inA1: true}
}

// HeatKey promotes an A1in key to Am, or refreshes an Am key.
func (q *twoQ[K, V]) HeatKey(k K) {
	s, ok := q.where[k]
	if !ok {
		return
	}
	if s.inA1 {
		q.in.Remove(s.h)
		q.where[k] = slot{h: q.am.PushBack(k)}
		return
	}
	q.am.MoveToBack(s.h)
}

// RemoveKey untracks k. Keys leaving A1in are remembered in A1out;
// removals from Am do not populate ghosts.
func (q *twoQ[K, V]) RemoveKey(k K) {
	s, ok := q.where[k]
	if !ok {
		return
	}
	delete(q.where, k)
	if !s.inA1 {
		q.am.Remove(s.h)
		return
	}
	q.in.Remove(s.h)
	q.remember(k)
}

func (q *twoQ[K, V]) RemoveAllKeys() {
	q.in.Clear()
	q.am.Clear()
	q.ghosts.Clear()
	clear(q.where)
	clear(q.ghostIdx)
}

func (q *twoQ[K, V]) Len() int { return len(q.where) }

// remember records k as a ghost (MRU at tail), dropping the oldest ghosts
// beyond capGhost.
func (q *twoQ[K, V]) remember(k K) {
	if old, ok := q.ghostIdx[k]; ok {
		q.ghosts.Remove(old)
	}
	q.ghostIdx[k] = q.ghosts.PushBack(k)

	for q.ghosts.Len() > q.capGhost {
		h, ok := q.ghosts.Front()
		if !ok {
			break
		}
		old, _ := q.ghosts.Remove(h)
		delete(q.ghostIdx, old)
	}
}
