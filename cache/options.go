package cache

import (
	"github.com/IvanBrykalov/imagecache/policy"
)

// Defaults used by the image cache constructors when callers have no
// better figure.
const (
	// DefaultMaxItems is the default entry count limit.
	DefaultMaxItems = 100
	// DefaultMaxSize is the default aggregate size limit, in SizeFunc units.
	DefaultMaxSize = 100_000
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCount: removed to respect MaxItems.
	EvictCount EvictReason = iota
	// EvictSize: removed to respect MaxSize.
	EvictSize
)

// String returns a stable lowercase name, suitable for metric labels.
func (r EvictReason) String() string {
	switch r {
	case EvictCount:
		return "count"
	case EvictSize:
		return "size"
	default:
		return "unknown"
	}
}

// SizeFunc reports the cost of a value in the units MaxSize is expressed in
// (typically bytes). See package sizing for stock implementations.
type SizeFunc[V any] func(v V) uint64

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	// Reject is called when a value is refused because it alone exceeds MaxSize.
	Reject()
	Size(items int, size uint64)
}

// Options configures a Cache. Required fields are MaxItems, MaxSize and
// Size; New panics if any is missing. Defaults applied in New():
//   - nil Policy   => LRU
//   - nil Metrics  => NoopMetrics
type Options[K comparable, V any] struct {
	// MaxItems is the entry count limit.
	MaxItems uint64

	// MaxSize is the aggregate size limit, in Size units.
	MaxSize uint64

	// Size computes the cost charged against MaxSize for each value.
	Size SizeFunc[V]

	// Policy decides eviction order; nil => a fresh LRU policy.
	// The instance must not be shared with another cache.
	Policy policy.Policy[K, V]

	// OnEvict is called for every eviction (not for Remove or Clear).
	OnEvict func(k K, v V, reason EvictReason)

	Metrics Metrics
}
