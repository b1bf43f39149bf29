// Package list implements a generic doubly linked list whose nodes live in an
// arena owned by the list. Callers address nodes through generational
// Handles, so a node can be unlinked or relocated in O(1) without exposing
// pointers into the list.
//
// A List is not safe for concurrent use.
package list

import "sync/atomic"

// none marks an absent link (no prev/next, empty head/tail).
const none int32 = -1

// owners hands out list identities. Zero is reserved for "no owner".
var owners atomic.Uint64

// Handle is an opaque reference to one node of one List.
//
// A handle stays valid until its node is removed or the list is cleared.
// After that every operation taking the handle reports failure instead of
// touching whatever node reuses the slot.
type Handle struct {
	owner uint64
	idx   int32
	gen   uint32
}

// IsZero reports whether h is the zero Handle (never issued by any list).
func (h Handle) IsZero() bool { return h.owner == 0 }

type node[T comparable] struct {
	val  T
	prev int32
	next int32
	gen  uint32
	live bool
}

// List is a doubly linked list of T values. The zero value is an empty list
// ready to use.
//
// Freed arena slots are recycled; the arena itself only shrinks on Clear.
type List[T comparable] struct {
	id    uint64
	nodes []node[T]
	free  []int32
	head  int32
	tail  int32
	len   int
}

// New returns an empty list.
func New[T comparable]() *List[T] {
	l := &List[T]{}
	l.init()
	return l
}

func (l *List[T]) init() {
	l.id = owners.Add(1)
	l.head, l.tail = none, none
}

func (l *List[T]) lazyInit() {
	if l.id == 0 {
		l.init()
	}
}

// Len returns the number of values in the list.
func (l *List[T]) Len() int { return l.len }

// PushBack appends v at the tail in O(1) and returns its handle.
func (l *List[T]) PushBack(v T) Handle {
	l.lazyInit()
	i := l.alloc(v)
	l.linkBack(i)
	return l.handle(i)
}

// PushFront prepends v at the head in O(1) and returns its handle.
func (l *List[T]) PushFront(v T) Handle {
	l.lazyInit()
	i := l.alloc(v)
	l.linkFront(i)
	return l.handle(i)
}

// Remove unlinks the node referenced by h in O(1) and returns its value.
// It returns false if h does not reference a live node of this list.
func (l *List[T]) Remove(h Handle) (T, bool) {
	i, ok := l.lookup(h)
	if !ok {
		var zero T
		return zero, false
	}
	v := l.nodes[i].val
	l.unlink(i)
	l.release(i)
	return v, true
}

// MoveToBack relocates the node referenced by h to the tail in O(1).
// The handle remains valid. It returns false for a foreign or stale handle.
func (l *List[T]) MoveToBack(h Handle) bool {
	i, ok := l.lookup(h)
	if !ok {
		return false
	}
	if i != l.tail {
		l.unlink(i)
		l.linkBack(i)
	}
	return true
}

// MoveToFront relocates the node referenced by h to the head in O(1).
// The handle remains valid. It returns false for a foreign or stale handle.
func (l *List[T]) MoveToFront(h Handle) bool {
	i, ok := l.lookup(h)
	if !ok {
		return false
	}
	if i != l.head {
		l.unlink(i)
		l.linkFront(i)
	}
	return true
}

// Search scans from head to tail and returns the handle of the first node
// whose value equals v. It is O(n); use handles for anything hot.
func (l *List[T]) Search(v T) (Handle, bool) {
	if l.len == 0 {
		return Handle{}, false
	}
	for i := l.head; i != none; i = l.nodes[i].next {
		if l.nodes[i].val == v {
			return l.handle(i), true
		}
	}
	return Handle{}, false
}

// Clear drops every node in O(n). All previously issued handles become
// invalid.
func (l *List[T]) Clear() {
	clear(l.nodes)
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.len = 0
	l.init()
}

// Contains reports whether h references a live node of this list.
func (l *List[T]) Contains(h Handle) bool {
	_, ok := l.lookup(h)
	return ok
}

// Value returns the value stored at h.
func (l *List[T]) Value(h Handle) (T, bool) {
	i, ok := l.lookup(h)
	if !ok {
		var zero T
		return zero, false
	}
	return l.nodes[i].val, true
}

// Front returns the head node.
func (l *List[T]) Front() (Handle, bool) {
	if l.len == 0 {
		return Handle{}, false
	}
	return l.handle(l.head), true
}

// Back returns the tail node.
func (l *List[T]) Back() (Handle, bool) {
	if l.len == 0 {
		return Handle{}, false
	}
	return l.handle(l.tail), true
}

// Next returns the node after h, or false at the tail.
func (l *List[T]) Next(h Handle) (Handle, bool) {
	i, ok := l.lookup(h)
	if !ok || l.nodes[i].next == none {
		return Handle{}, false
	}
	return l.handle(l.nodes[i].next), true
}

// Prev returns the node before h, or false at the head.
func (l *List[T]) Prev(h Handle) (Handle, bool) {
	i, ok := l.lookup(h)
	if !ok || l.nodes[i].prev == none {
		return Handle{}, false
	}
	return l.handle(l.nodes[i].prev), true
}

// Values returns a copy of the values in head-to-tail order.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.len)
	if l.len == 0 {
		return out
	}
	for i := l.head; i != none; i = l.nodes[i].next {
		out = append(out, l.nodes[i].val)
	}
	return out
}

// -------------------- arena internals --------------------

func (l *List[T]) handle(i int32) Handle {
	return Handle{owner: l.id, idx: i, gen: l.nodes[i].gen}
}

// lookup resolves h to an arena index, rejecting zero, foreign and stale
// handles.
func (l *List[T]) lookup(h Handle) (int32, bool) {
	if h.owner == 0 || h.owner != l.id {
		return 0, false
	}
	if h.idx < 0 || int(h.idx) >= len(l.nodes) {
		return 0, false
	}
	n := &l.nodes[h.idx]
	if !n.live || n.gen != h.gen {
		return 0, false
	}
	return h.idx, true
}

func (l *List[T]) alloc(v T) int32 {
	if k := len(l.free); k > 0 {
		i := l.free[k-1]
		l.free = l.free[:k-1]
		n := &l.nodes[i]
		n.val, n.prev, n.next, n.live = v, none, none, true
		return i
	}
	l.nodes = append(l.nodes, node[T]{val: v, prev: none, next: none, gen: 1, live: true})
	return int32(len(l.nodes) - 1)
}

// release returns slot i to the free list and bumps its generation so that
// handles issued for the old occupant no longer resolve.
func (l *List[T]) release(i int32) {
	var zero T
	n := &l.nodes[i]
	n.val = zero
	n.live = false
	n.gen++
	l.free = append(l.free, i)
}

func (l *List[T]) linkBack(i int32) {
	n := &l.nodes[i]
	n.prev, n.next = l.tail, none
	if l.tail != none {
		l.nodes[l.tail].next = i
	} else {
		l.head = i
	}
	l.tail = i
	l.len++
}

func (l *List[T]) linkFront(i int32) {
	n := &l.nodes[i]
	n.prev, n.next = none, l.head
	if l.head != none {
		l.nodes[l.head].prev = i
	} else {
		l.tail = i
	}
	l.head = i
	l.len++
}

// unlink detaches slot i and relinks its neighbours. Removing the sole node
// leaves head and tail both absent.
func (l *List[T]) unlink(i int32) {
	n := &l.nodes[i]
	if n.prev != none {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != none {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = none, none
	l.len--
}
