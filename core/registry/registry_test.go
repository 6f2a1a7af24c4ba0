package registry

import (
	"errors"
	"testing"

	"github.com/kilianp07/fcbench/core/identity"
)

func TestRegistry_AddKeepsOrder(t *testing.T) {
	reg := New[int]()
	for i, id := range []string{"b-v1", "a-v1", "c-v1"} {
		if err := reg.Add(id, i); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	ids := reg.IDs()
	if len(ids) != 3 || ids[0] != "b-v1" || ids[1] != "a-v1" || ids[2] != "c-v1" {
		t.Fatalf("unexpected order %v", ids)
	}
	if v, ok := reg.Get("a-v1"); !ok || v != 1 {
		t.Fatalf("expected 1 got %d", v)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 got %d", reg.Len())
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	reg := New[string]()
	if err := reg.Add("x-v1", "first"); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := reg.Add("x-v1", "second")
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if v, _ := reg.Get("x-v1"); v != "first" {
		t.Fatalf("entry overwritten: %s", v)
	}
	if err := reg.Add("", "empty"); err == nil {
		t.Fatal("expected empty id error")
	}
}

func TestRegistry_AddAllIsAtomic(t *testing.T) {
	reg := New[int]()
	if err := reg.Add("a-v1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := reg.AddAll([]identity.Entry[int]{{ID: "b-v1", Value: 2}, {ID: "a-v1", Value: 3}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if reg.Has("b-v1") {
		t.Fatal("partial registration")
	}
	if err := reg.AddAll([]identity.Entry[int]{{ID: "b-v1", Value: 2}, {ID: "b-v1", Value: 3}}); err == nil {
		t.Fatal("expected duplicate within batch")
	}
	entries := reg.Entries()
	if len(entries) != 1 || entries[0].ID != "a-v1" {
		t.Fatalf("unexpected entries %v", entries)
	}
}
