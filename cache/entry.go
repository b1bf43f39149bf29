package cache

// entry is a resident value and the size it was charged at insertion.
// Removal subtracts exactly this size, never a recomputed one.
type entry[V any] struct {
	val  V
	size uint64
}
