package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRU_EvictsLeastRecent(t *testing.T) {
	c := New[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	if _, ok := c.Get("a"); !ok { // a becomes MRU
		t.Fatal("a missing")
	}
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b survived eviction")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %d,%v, want 1,true", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestLRU_ConcurrentUse(t *testing.T) {
	c := New[string, string](16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				k := fmt.Sprintf("k%d", (i+j)%32)
				c.Add(k, k)
				c.Get(k)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Fatalf("Len = %d, want ≤ 16", c.Len())
	}
}
