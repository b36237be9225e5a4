package caps

import (
	"sort"
	"testing"
)

func TestRegistryBindAndLookup(t *testing.T) {
	r := NewRegistry()
	key := Key{Algo: "sha-1", Ver: "abc="}

	if _, ok := r.Binding("juliet@capulet.lit", "balcony"); ok {
		t.Fatal("Binding() on empty registry should miss")
	}

	r.Bind("juliet@capulet.lit", "balcony", key)

	got, ok := r.Binding("juliet@capulet.lit", "balcony")
	if !ok {
		t.Fatal("Binding() should hit after Bind()")
	}
	if got != key {
		t.Errorf("Binding() = %+v, want %+v", got, key)
	}

	// Other resources of the same entity are independent.
	if _, ok := r.Binding("juliet@capulet.lit", "chamber"); ok {
		t.Error("Binding() for unbound resource should miss")
	}
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	r.Bind("romeo@montague.lit", "orchard", Key{Algo: "sha-1", Ver: "old="})
	r.Bind("romeo@montague.lit", "orchard", Key{Algo: "sha-256", Ver: "new="})

	got, ok := r.Binding("romeo@montague.lit", "orchard")
	if !ok {
		t.Fatal("Binding() should hit")
	}
	if got.Ver != "new=" || got.Algo != "sha-256" {
		t.Errorf("Binding() = %+v, want the latest binding", got)
	}
}

func TestRegistryResources(t *testing.T) {
	r := NewRegistry()
	key := Key{Algo: "sha-1", Ver: "v="}
	r.Bind("romeo@montague.lit", "orchard", key)
	r.Bind("romeo@montague.lit", "street", key)

	got := r.Resources("romeo@montague.lit")
	sort.Strings(got)
	if len(got) != 2 || got[0] != "orchard" || got[1] != "street" {
		t.Errorf("Resources() = %v, want [orchard street]", got)
	}

	if got := r.Resources("nobody@example.org"); len(got) != 0 {
		t.Errorf("Resources() for unknown entity = %v, want empty", got)
	}
}
