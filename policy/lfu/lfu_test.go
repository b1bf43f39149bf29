package lfu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newLFU() *lfu[string, int] { return New[string, int]().(*lfu[string, int]) }

func TestLFU_EvictByFrequency(t *testing.T) {
	t.Parallel()

	p := newLFU()
	p.AddKey("k1", 1)
	p.AddKey("k2", 2)
	for i := 0; i < 3; i++ {
		p.HeatKey("k1")
	}

	require.Equal(t, "k2", p.NextKeyToEvict().UnwrapOrFail(t))
	require.Equal(t, 4, p.Frequency("k1"))
	require.Equal(t, 1, p.Frequency("k2"))
}

func TestLFU_TiesFallBackToLRU(t *testing.T) {
	t.Parallel()

	p := newLFU()
	p.AddKey("k1", 1)
	p.AddKey("k2", 2)
	p.AddKey("k3", 3)

	require.Equal(t, "k1", p.NextKeyToEvict().UnwrapOrFail(t))

	p.HeatKey("k1")
	p.HeatKey("k2")
	// k3 is now the only freq-1 key.
	require.Equal(t, "k3", p.NextKeyToEvict().UnwrapOrFail(t))
	p.RemoveKey("k3")
	// k1 reached freq 2 before k2.
	require.Equal(t, "k1", p.NextKeyToEvict().UnwrapOrFail(t))
}

func TestLFU_AddTrackedCountsAsUse(t *testing.T) {
	t.Parallel()

	p := newLFU()
	p.AddKey("a", 1)
	p.AddKey("b", 1)
	p.AddKey("a", 2)

	require.Equal(t, 2, p.Len())
	require.Equal(t, 2, p.Frequency("a"))
	require.Equal(t, "b", p.NextKeyToEvict().UnwrapOrFail(t))
}

func TestLFU_RemoveRecomputesMinimum(t *testing.T) {
	t.Parallel()

	p := newLFU()
	p.AddKey("a", 1)
	p.AddKey("b", 2)
	p.HeatKey("b")
	p.HeatKey("b")

	p.RemoveKey("a") // empties the freq-1 bucket
	require.Equal(t, "b", p.NextKeyToEvict().UnwrapOrFail(t))

	p.RemoveKey("b")
	p.RemoveKey("zzz")
	require.True(t, p.NextKeyToEvict().IsNone())
	require.Equal(t, 0, p.Len())
}

func TestLFU_RemoveAllKeys(t *testing.T) {
	t.Parallel()

	p := newLFU()
	p.AddKey("a", 1)
	p.HeatKey("a")
	p.RemoveAllKeys()
	require.True(t, p.NextKeyToEvict().IsNone())

	p.AddKey("b", 1)
	require.Equal(t, "b", p.NextKeyToEvict().UnwrapOrFail(t))
	require.Equal(t, 0, p.Frequency("a"))
}

func TestLFU_RemoveSkipsFrequencyGaps(t *testing.T) {
	t.Parallel()

	p := newLFU()
	heat := map[string]int{"cold": 0, "warm": 2, "hot": 4}
	for _, k := range []string{"hot", "cold", "warm"} {
		p.AddKey(k, 0)
		for i := 0; i < heat[k]; i++ {
			p.HeatKey(k)
		}
	}

	// Only freq 1, 3 and 5 have buckets; the rescan must land on 3.
	p.RemoveKey("cold")
	require.Equal(t, "warm", p.NextKeyToEvict().UnwrapOrFail(t))
	p.RemoveKey("warm")
	require.Equal(t, "hot", p.NextKeyToEvict().UnwrapOrFail(t))
	require.Equal(t, 5, p.Frequency("hot"))
}
