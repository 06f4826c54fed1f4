package closure

import (
	"testing"
)

func pairs(edges ...[2]string) []Pair {
	out := make([]Pair, 0, len(edges))
	for _, e := range edges {
		out = append(out, Pair{From: e[0], To: e[1]})
	}
	return out
}

func assertSet(t *testing.T, got Set, want ...Code) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("closure size = %d, want %d (got %v)", len(got), len(want), got.Sorted())
	}
	for _, c := range want {
		if !got.Has(c) {
			t.Errorf("closure missing %q (got %v)", c, got.Sorted())
		}
	}
}

func TestExpandHierarchyOnly(t *testing.T) {
	store := NewStore(pairs([2]string{"A", "B"}, [2]string{"B", "C"}), nil, nil)
	got := Expand([]Code{"A"}, store, nil)
	assertSet(t, got, "A", "B", "C")
}

func TestExpandChildRedirect(t *testing.T) {
	store := NewStore(
		pairs([2]string{"A", "B"}),
		pairs([2]string{"B", "B2"}),
		nil,
	)
	got := Expand([]Code{"A"}, store, nil)
	assertSet(t, got, "A", "B", "B2")
}

func TestExpandSeedRedirect(t *testing.T) {
	store := NewStore(nil, pairs([2]string{"A", "A2"}), nil)
	got := Expand([]Code{"A"}, store, nil)
	assertSet(t, got, "A", "A2")
}

func TestExpandChildrenOfRedirectTarget(t *testing.T) {
	store := NewStore(
		pairs([2]string{"A", "B"}, [2]string{"B2", "C"}),
		pairs([2]string{"B", "B2"}),
		nil,
	)
	got := Expand([]Code{"A"}, store, nil)
	assertSet(t, got, "A", "B", "B2", "C")
}

func TestExpandUnknownSeed(t *testing.T) {
	store := NewStore(nil, nil, nil)
	got := Expand([]Code{"X"}, store, nil)
	assertSet(t, got, "X")
}

func TestExpandRedirectChain(t *testing.T) {
	// A child's replacement may itself have been replaced; both hops and
	// every intermediate identifier must land in the closure.
	store := NewStore(
		pairs([2]string{"A", "B"}),
		pairs([2]string{"B", "B2"}, [2]string{"B2", "B3"}),
		nil,
	)
	got := Expand([]Code{"A"}, store, nil)
	assertSet(t, got, "A", "B", "B2", "B3")
}

func TestExpandMultiWayRedirect(t *testing.T) {
	store := NewStore(
		pairs([2]string{"A", "B"}),
		pairs([2]string{"B", "B2"}, [2]string{"B", "B3"}),
		nil,
	)
	got := Expand([]Code{"A"}, store, nil)
	assertSet(t, got, "A", "B", "B2", "B3")
}

func TestExpandTerminatesOnCycles(t *testing.T) {
	store := NewStore(
		pairs([2]string{"A", "B"}, [2]string{"B", "A"}),
		pairs([2]string{"A", "B"}, [2]string{"B", "A"}),
		nil,
	)
	got := Expand([]Code{"A"}, store, nil)
	assertSet(t, got, "A", "B")
}

func TestExpandIdempotent(t *testing.T) {
	store := NewStore(
		pairs([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C2", "D"}),
		pairs([2]string{"C", "C2"}),
		nil,
	)
	first := Expand([]Code{"A"}, store, nil)
	again := Expand(first.Sorted(), store, nil)
	if len(again) != len(first) {
		t.Fatalf("re-expanding the closure grew it: %d -> %d", len(first), len(again))
	}
	for c := range first {
		if !again.Has(c) {
			t.Errorf("re-expansion lost %q", c)
		}
	}
}

func TestExpandRedirectCompleteness(t *testing.T) {
	store := NewStore(
		pairs([2]string{"A", "B"}, [2]string{"A", "C"}, [2]string{"B", "D"}),
		pairs([2]string{"C", "C2"}, [2]string{"D", "D2"}, [2]string{"D", "D3"}),
		nil,
	)
	got := Expand([]Code{"A"}, store, nil)
	for code := range got {
		for _, r := range store.RedirectsOf(code) {
			if !got.Has(r) {
				t.Errorf("redirect %q of %q missing from closure", r, code)
			}
		}
		for _, child := range store.ChildrenOf(code) {
			if !got.Has(child) {
				t.Errorf("child %q of %q missing from closure", child, code)
			}
		}
	}
}

func TestExpandExclude(t *testing.T) {
	store := NewStore(
		pairs([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"}),
		nil,
		nil,
	)
	got := Expand([]Code{"A"}, store, NewSet("C"))
	// C is dropped, but so is everything only reachable through it.
	assertSet(t, got, "A", "B")
}

func TestSetSorted(t *testing.T) {
	s := NewSet("10", "2", "1")
	got := s.Sorted()
	want := []Code{"1", "10", "2"} // lexicographic, never numeric
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
}
