package cache

import (
	"fmt"

	"github.com/IvanBrykalov/imagecache/policy"
	"github.com/IvanBrykalov/imagecache/policy/lru"
)

// Cache is a bounded in-memory key/value store with a pluggable eviction
// policy. It enforces two limits on every insertion: MaxItems entries and
// MaxSize aggregate size as measured by Options.Size.
//
// A Cache is not safe for concurrent use. Serialize access yourself or wrap
// it with NewSynchronized.
type Cache[K comparable, V any] struct {
	items map[K]entry[V]
	size  uint64 // sum of entry sizes

	maxItems uint64
	maxSize  uint64

	pol policy.Policy[K, V]
	opt Options[K, V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - nil Policy   -> LRU
func New[K comparable, V any](opt Options[K, V]) *Cache[K, V] {
	if opt.MaxItems == 0 {
		panic("MaxItems must be > 0")
	}
	if opt.MaxSize == 0 {
		panic("MaxSize must be > 0")
	}
	if opt.Size == nil {
		panic("Size must not be nil")
	}
	// default Metrics
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	// default Policy: LRU
	if opt.Policy == nil {
		opt.Policy = lru.New[K, V]()
	}

	return &Cache[K, V]{
		items:    make(map[K]entry[V]),
		maxItems: opt.MaxItems,
		maxSize:  opt.MaxSize,
		pol:      opt.Policy,
		opt:      opt,
	}
}

// Add inserts or replaces k→v, evicting as needed. It returns false if the
// value could not be stored; see TryAdd for the reason.
func (c *Cache[K, V]) Add(k K, v V) bool {
	return c.TryAdd(k, v) == nil
}

// TryAdd inserts or replaces k→v.
//
// A value whose size alone exceeds MaxSize is refused with ErrTooLarge and
// the cache is left untouched. Otherwise victims chosen by the policy are
// evicted until the new value fits both limits. Replacing a key counts as a
// use of that key.
func (c *Cache[K, V]) TryAdd(k K, v V) error {
	size := c.opt.Size(v)
	if size > c.maxSize {
		c.opt.Metrics.Reject()
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, size, c.maxSize)
	}

	// The entry being replaced gives its slot and size back.
	old, replacing := c.items[k]
	var freedItems, freedSize uint64
	if replacing {
		freedItems, freedSize = 1, old.size
	}

	for {
		overCount := c.count()-freedItems+1 > c.maxItems
		overSize := c.size-freedSize+size > c.maxSize
		if !overCount && !overSize {
			break
		}
		victim, err := c.nextVictim()
		if err != nil {
			return err
		}
		if replacing && victim == k {
			// Evicting the old value frees exactly what was already
			// credited above.
			replacing, freedItems, freedSize = false, 0, 0
		}
		reason := EvictSize
		if overCount {
			reason = EvictCount
		}
		c.evict(victim, reason)
	}

	if replacing {
		c.size -= old.size
	}
	c.items[k] = entry[V]{val: v, size: size}
	c.size += size
	c.pol.AddKey(k, v)
	c.opt.Metrics.Size(len(c.items), c.size)
	return nil
}

// Get returns the value for k and a presence flag.
// On hit, the key is marked as recently used by the policy.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	e, ok := c.items[k]
	if !ok {
		c.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	c.pol.HeatKey(k)
	c.opt.Metrics.Hit()
	return e.val, true
}

// Peek returns the value for k without affecting eviction order.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	e, ok := c.items[k]
	return e.val, ok
}

// Contains reports whether k is resident, without affecting eviction order.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.items[k]
	return ok
}

// Remove deletes k and returns the removed value, if any.
func (c *Cache[K, V]) Remove(k K) (V, bool) {
	e, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.drop(k, e)
	c.opt.Metrics.Size(len(c.items), c.size)
	return e.val, true
}

// Clear removes every entry and resets the policy.
func (c *Cache[K, V]) Clear() {
	clear(c.items)
	c.size = 0
	c.pol.RemoveAllKeys()
	c.opt.Metrics.Size(0, 0)
}

// NextEviction previews the key the policy would evict next, without
// evicting it.
func (c *Cache[K, V]) NextEviction() (K, bool) {
	next := c.pol.NextKeyToEvict()
	var zero K
	return next.UnwrapOr(zero), next.IsSome()
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Size returns the aggregate size of resident entries.
func (c *Cache[K, V]) Size() uint64 { return c.size }

// MaxItems returns the entry count limit.
func (c *Cache[K, V]) MaxItems() uint64 { return c.maxItems }

// MaxSize returns the aggregate size limit.
func (c *Cache[K, V]) MaxSize() uint64 { return c.maxSize }

// Policy returns the eviction policy in use.
func (c *Cache[K, V]) Policy() policy.Policy[K, V] { return c.pol }

// SetMaxItems changes the entry count limit and immediately evicts down to
// it. It returns the number of evicted entries.
func (c *Cache[K, V]) SetMaxItems(n uint64) (int, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: MaxItems", ErrInvalidLimit)
	}
	c.maxItems = n
	return c.sweep()
}

// SetMaxSize changes the aggregate size limit and immediately evicts down to
// it. It returns the number of evicted entries.
func (c *Cache[K, V]) SetMaxSize(n uint64) (int, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: MaxSize", ErrInvalidLimit)
	}
	c.maxSize = n
	return c.sweep()
}

// -------------------- internals --------------------

func (c *Cache[K, V]) count() uint64 { return uint64(len(c.items)) }

// sweep evicts until both limits hold.
func (c *Cache[K, V]) sweep() (int, error) {
	evicted := 0
	for {
		reason := EvictCount
		switch {
		case c.count() > c.maxItems:
		case c.size > c.maxSize:
			reason = EvictSize
		default:
			log.Debugf("Limits now %d items / %d size, evicted %d",
				c.maxItems, c.maxSize, evicted)
			c.opt.Metrics.Size(len(c.items), c.size)
			return evicted, nil
		}

		victim, err := c.nextVictim()
		if err != nil {
			return evicted, err
		}
		c.evict(victim, reason)
		evicted++
	}
}

// nextVictim asks the policy for a victim while a limit is breached. Both
// failure modes mean the policy and the map disagree.
func (c *Cache[K, V]) nextVictim() (K, error) {
	victim, err := c.pol.NextKeyToEvict().UnwrapOrErr(ErrEvictionImpossible)
	if err != nil {
		log.Criticalf("Policy has no victim with %d items / %d size "+
			"resident (policy tracks %d keys)", len(c.items), c.size,
			c.pol.Len())
		return victim, err
	}
	if _, ok := c.items[victim]; !ok {
		log.Criticalf("Policy proposed %v which is not resident; "+
			"dropping it from the policy", victim)
		c.pol.RemoveKey(victim)
		return victim, fmt.Errorf("%w: policy tracks unknown key %v",
			ErrEvictionImpossible, victim)
	}
	return victim, nil
}

// evict removes a resident key on behalf of the limits and reports it.
func (c *Cache[K, V]) evict(k K, reason EvictReason) {
	e := c.items[k]
	c.drop(k, e)
	c.opt.Metrics.Evict(reason)
	log.Debugf("Evicted %v (size=%d, reason=%v)", k, e.size, reason)
	if cb := c.opt.OnEvict; cb != nil {
		cb(k, e.val, reason)
	}
}

// drop removes k from the map, the size total and the policy in lockstep.
func (c *Cache[K, V]) drop(k K, e entry[V]) {
	delete(c.items, k)
	c.size -= e.size
	c.pol.RemoveKey(k)
}
