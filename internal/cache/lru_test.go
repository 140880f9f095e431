package cache

import "testing"

func TestLRU_EvictsOldest(t *testing.T) {
	c := New[int, string](2)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Get(1) // 2 is now least recent
	c.Add(3, "c")

	if _, ok := c.Get(2); ok {
		t.Fatalf("key 2 should have been evicted")
	}
	if v, ok := c.Get(1); !ok || v != "a" {
		t.Fatalf("Get(1) = %q, %v; want a, true", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestLRU_ReplaceRemovePurge(t *testing.T) {
	c := New[string, int](4)
	c.Add("x", 1)
	c.Add("x", 2)
	if v, _ := c.Get("x"); v != 2 {
		t.Fatalf("Get(x) = %d, want 2", v)
	}

	c.Remove("x")
	if _, ok := c.Get("x"); ok {
		t.Fatalf("x still present after Remove")
	}

	c.Add("a", 1)
	c.Add("b", 2)
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("Len after Purge = %d", c.Len())
	}
}

func TestLRU_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New[int, int](0)
}
