package namedtree

import (
	"testing"
)

func TestSpecCache(t *testing.T) {
	a := named("A", Tree{"p": Tree{"x": 1}})
	b := named("B", Tree{"p": Tree{"x": 2}})
	cache := NewSpecCache(4)
	opts := Options{Logger: NopLogger(), Cache: cache}

	first, err := ExtractSpec([]*NamedTree{a, b}, opts)
	if err != nil {
		t.Fatalf("ExtractSpec failed: %v", err)
	}
	again, err := ExtractSpec([]*NamedTree{a, b}, opts)
	if err != nil {
		t.Fatalf("ExtractSpec failed: %v", err)
	}
	if first != again {
		t.Error("expected a cache hit for the same ordered members")
	}
	if a.Spec() != nil {
		t.Error("the out-of-band cache must not attach specs to values")
	}

	swapped, err := ExtractSpec([]*NamedTree{b, a}, opts)
	if err != nil {
		t.Fatalf("ExtractSpec failed: %v", err)
	}
	if swapped == first {
		t.Error("a reordered member list must not share the cached entry")
	}
	if !swapped.Equal(first) {
		t.Error("same-shaped members should still derive equal specs")
	}
	if cache.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2", cache.Len())
	}
}

func TestSpecCacheEvicts(t *testing.T) {
	cache := NewSpecCache(1)
	a := []*NamedTree{named("A", Tree{"x": 1})}
	b := []*NamedTree{named("B", Tree{"y": 1})}

	cache.Store(a, NewSpec())
	cache.Store(b, NewSpec())
	if _, ok := cache.Lookup(a); ok {
		t.Error("expected the oldest entry to be evicted")
	}
	if _, ok := cache.Lookup(b); !ok {
		t.Error("expected the newest entry to be kept")
	}
}

func TestMemberKeyIsLengthPrefixed(t *testing.T) {
	x := named("ab", nil)
	y := named("c", nil)
	k1 := memberKey([]*NamedTree{x, y})
	x.SetName("a")
	y.SetName("bc")
	k2 := memberKey([]*NamedTree{x, y})
	if k1 == k2 {
		t.Error("different names must produce different keys")
	}
}
