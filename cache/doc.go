// Package cache provides a bounded, generic, in-memory cache for image-like
// payloads with pluggable eviction policies (LRU by default) and size-based
// capacity.
//
// # Design
//
//   - Limits: every insertion enforces both MaxItems (entry count) and
//     MaxSize (sum of Options.Size over resident values). A value whose size
//     alone exceeds MaxSize is refused and the cache is left unchanged.
//
//   - Policies: the cache owns the key->value map and the size accounting;
//     the eviction policy (package policy) only tracks keys and names the next
//     victim. LRU is the default; FIFO, LFU and 2Q are provided. Map and
//     policy are updated in lockstep so that Len() == Policy().Len() always.
//
//   - Storage: policies keep recency order in package list, an arena-backed
//     doubly linked list addressed by generational handles. All cache
//     operations are O(1) expected except Clear.
//
//   - Limits can be changed at runtime with SetMaxItems/SetMaxSize, which
//     evict immediately.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Reject/Size signals.
//     By default NoopMetrics is used; plug the metrics/prom adapter to export
//     them.
//
//   - Logging: the package logs through btclog; call UseLogger to enable it.
//     Cache/policy desynchronization is logged at Critical level.
//
// # Basic usage
//
//	c := cache.NewImageCache(cache.DefaultMaxItems, 8<<20)
//	c.Add("avatar:42", img)
//	if img, ok := c.Get("avatar:42"); ok {
//	    _ = img // draw it
//	}
//	c.Remove("avatar:42")
//
// # Custom values and policy
//
//	c := cache.New(cache.Options[string, []byte]{
//	    MaxItems: 1024,
//	    MaxSize:  64 << 20,
//	    Size:     sizing.Bytes,
//	    Policy:   twoq.New[string, []byte](256, 512),
//	})
//
// # Thread-safety
//
// Cache is not safe for concurrent use. Wrap it with NewSynchronized to
// share it between goroutines; Synchronized also offers GetOrLoad, which
// coalesces concurrent loads of the same key.
package cache
