package cache

import (
	"image"

	"github.com/IvanBrykalov/imagecache/policy"
	"github.com/IvanBrykalov/imagecache/sizing"
)

// NewImageCache returns a cache of decoded images keyed by string, charged
// by pixel memory (sizing.Image) and using the default LRU policy.
func NewImageCache(maxItems, maxSize uint64) *Cache[string, image.Image] {
	return NewImageCacheWithPolicy(maxItems, maxSize, nil)
}

// NewImageCacheWithPolicy is NewImageCache with a custom eviction policy.
// A nil policy selects LRU.
func NewImageCacheWithPolicy(maxItems, maxSize uint64,
	p policy.Policy[string, image.Image]) *Cache[string, image.Image] {

	return New(Options[string, image.Image]{
		MaxItems: maxItems,
		MaxSize:  maxSize,
		Size:     sizing.Image,
		Policy:   p,
	})
}
