package fdm

import (
	"sync"
	"testing"
)

func TestPropertyBusSetGet(t *testing.T) {
	b := NewPropertyBus()
	if _, ok := b.Get("missing"); ok {
		t.Fatal("expected ok=false for an unset property")
	}
	b.Set("velocities/vt-fps", 120.5)
	v, ok := b.Get("velocities/vt-fps")
	if !ok || v != 120.5 {
		t.Fatalf("got v=%f ok=%v, want v=120.5 ok=true", v, ok)
	}
}

func TestPropertyBusSnapshotIsDefensiveCopy(t *testing.T) {
	b := NewPropertyBus()
	b.Set("a", 1)
	snap := b.Snapshot()
	snap["a"] = 999
	v, _ := b.Get("a")
	if v != 1 {
		t.Fatal("mutating a snapshot should not affect the bus")
	}
}

func TestPropertyBusConcurrentAccess(t *testing.T) {
	b := NewPropertyBus()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Set("k", float64(i))
			b.Get("k")
			b.Snapshot()
		}(i)
	}
	wg.Wait()
}
