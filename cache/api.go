package cache

// Store is the method set shared by Cache and Synchronized.
//
// Every operation is O(1) expected for the shipped policies: a map access
// plus constant-time list adjustments. Clear is O(n).
type Store[K comparable, V any] interface {
	// Add inserts or replaces k→v, evicting as needed.
	// Returns false if the value could not be stored.
	Add(k K, v V) bool

	// TryAdd is Add with the failure reason (ErrTooLarge,
	// ErrEvictionImpossible).
	TryAdd(k K, v V) error

	// Get returns the value for k and a presence flag.
	// On hit, the entry is marked as recently used by the policy.
	Get(k K) (V, bool)

	// Peek is Get without touching the policy.
	Peek(k K) (V, bool)

	// Remove deletes k and returns the removed value, if any.
	Remove(k K) (V, bool)

	// Clear removes every entry.
	Clear()

	// Len returns the number of resident entries.
	Len() int

	// Size returns the aggregate size of resident entries.
	Size() uint64

	// SetMaxItems and SetMaxSize change a limit and evict down to it,
	// returning the number of evicted entries.
	SetMaxItems(n uint64) (int, error)
	SetMaxSize(n uint64) (int, error)
}

var (
	_ Store[string, []byte] = (*Cache[string, []byte])(nil)
	_ Store[string, []byte] = (*Synchronized[string, []byte])(nil)
)
