package twoq

import (
	"testing"
)

func newTwoQ(capIn, capGhost int) *twoQ[string, int] {
	return New[string, int](capIn, capGhost).(*twoQ[string, int])
}

// AddKey of a first-time key should admit into A1in.
func TestTwoQ_AddGoesToA1in(t *testing.T) {
	t.Parallel()

	p := newTwoQ(2, 4)
	p.AddKey("a", 1)

	if p.in.Len() != 1 {
		t.Fatalf("A1in must have 1 element, got %d", p.in.Len())
	}
	if s, ok := p.where["a"]; !ok || !s.inA1 {
		t.Fatalf("a must be tracked in A1in")
	}
}

// While A1in exceeds capIn, its oldest key is the victim.
func TestTwoQ_OverflowEvictsOldestOfA1in(t *testing.T) {
	t.Parallel()

	p := newTwoQ(2, 4)
	p.AddKey("a", 1)
	p.AddKey("b", 2)
	p.HeatKey("b") // b -> Am
	p.AddKey("c", 3)
	p.AddKey("d", 4) // A1in: [a, c, d] > capIn

	if got := p.NextKeyToEvict().UnwrapOrFail(t); got != "a" {
		t.Fatalf("expected victim a (oldest of A1in), got %q", got)
	}
}

// Within capIn the victim is taken from Am.
func TestTwoQ_VictimFromAmWhenA1inSmall(t *testing.T) {
	t.Parallel()

	p := newTwoQ(2, 4)
	p.AddKey("a", 1)
	p.AddKey("b", 2)
	p.HeatKey("a") // a -> Am
	p.HeatKey("b") // b -> Am, after a
	p.AddKey("c", 3)

	if got := p.NextKeyToEvict().UnwrapOrFail(t); got != "a" {
		t.Fatalf("expected victim a (LRU of Am), got %q", got)
	}
	p.HeatKey("a")
	if got := p.NextKeyToEvict().UnwrapOrFail(t); got != "b" {
		t.Fatalf("expected victim b after heating a, got %q", got)
	}
}

// Removing a key from A1in should place it into ghosts (A1out).
func TestTwoQ_RemoveFromA1inGoesToGhost(t *testing.T) {
	t.Parallel()

	p := newTwoQ(2, 2)
	p.AddKey("a", 1)
	p.RemoveKey("a")

	if _, ok := p.where["a"]; ok {
		t.Fatal("a must be untracked")
	}
	if _, ok := p.ghostIdx["a"]; !ok {
		t.Fatal("key 'a' must be in ghost (A1out)")
	}
	if p.Len() != 0 {
		t.Fatalf("ghosts must not count as tracked, Len=%d", p.Len())
	}
}

// Re-admitting a ghost key should bypass A1in and go to Am.
func TestTwoQ_AddFromGhostGoesToAm(t *testing.T) {
	t.Parallel()

	p := newTwoQ(1, 2)
	p.AddKey("a", 1)
	p.RemoveKey("a")
	p.AddKey("a", 2)

	if s := p.where["a"]; s.inA1 {
		t.Fatal("a must be admitted to Am")
	}
	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("ghost entry must be consumed")
	}
}

// Removals from Am do not create ghosts.
func TestTwoQ_RemoveFromAmNoGhost(t *testing.T) {
	t.Parallel()

	p := newTwoQ(2, 2)
	p.AddKey("a", 1)
	p.HeatKey("a")
	p.RemoveKey("a")

	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("Am removals must not populate ghosts")
	}
}

// Ghost capacity is enforced by dropping the oldest ghosts.
func TestTwoQ_GhostCapacity(t *testing.T) {
	t.Parallel()

	p := newTwoQ(4, 2)
	for _, k := range []string{"a", "b", "c"} {
		p.AddKey(k, 0)
		p.RemoveKey(k)
	}
	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("oldest ghost must be dropped")
	}
	if p.ghosts.Len() != 2 {
		t.Fatalf("ghost list must be capped at 2, got %d", p.ghosts.Len())
	}
}

func TestTwoQ_RemoveAllKeys(t *testing.T) {
	t.Parallel()

	p := newTwoQ(2, 2)
	p.AddKey("a", 1)
	p.AddKey("b", 1)
	p.HeatKey("b")
	p.RemoveKey("a")
	p.RemoveAllKeys()

	if p.Len() != 0 || p.NextKeyToEvict().IsSome() {
		t.Fatal("policy must be empty after RemoveAllKeys")
	}
	if len(p.ghostIdx) != 0 {
		t.Fatal("ghosts must be cleared too")
	}
}
