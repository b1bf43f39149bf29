package cache

import "errors"

var (
	// ErrTooLarge is returned by TryAdd when a single value is bigger than
	// the cache's MaxSize. The cache is left unchanged.
	ErrTooLarge = errors.New("cache: value larger than MaxSize")

	// ErrEvictionImpossible means the limits could not be restored because
	// the policy had no usable victim. It only happens when the cache and
	// its policy have gone out of sync.
	ErrEvictionImpossible = errors.New("cache: no eviction candidate")

	// ErrInvalidLimit is returned when setting MaxItems or MaxSize to zero.
	ErrInvalidLimit = errors.New("cache: limit must be > 0")

	// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
	ErrNoLoader = errors.New("cache: no Loader provided")
)
