// Package policy defines the contract between the cache and its eviction
// strategies.
package policy

import "github.com/lightningnetwork/lnd/fn/v2"

// Policy decides eviction order for the keys resident in one cache.
// The cache owns the key->value map and all size accounting; a Policy only
// tracks keys and answers "who goes next".
//
// Deciding and committing are separate steps: NextKeyToEvict never mutates
// state, and the cache calls RemoveKey once it has actually dropped the
// entry. This keeps multi-evict loops and dry-run previews simple.
//
// Implementations are not safe for concurrent use and must not be shared
// between caches.
type Policy[K comparable, V any] interface {
	// NextKeyToEvict returns the next victim, or None if nothing is tracked.
	NextKeyToEvict() fn.Option[K]

	// AddKey registers k as just used. Re-adding a tracked key is treated
	// as HeatKey plus a value update by every policy in this module.
	AddKey(k K, v V)

	// HeatKey records an access to k. No-op for untracked keys.
	HeatKey(k K)

	// RemoveKey stops tracking k. No-op for untracked keys.
	RemoveKey(k K)

	// RemoveAllKeys stops tracking every key.
	RemoveAllKeys()

	// Len returns the number of tracked keys.
	Len() int
}
