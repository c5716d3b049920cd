package status

import (
	"sync"
	"testing"
)

func TestCounterPointerIsStable(t *testing.T) {
	r := NewRegistry()

	a := r.Counter("render.draws")
	b := r.Counter("render.draws")
	if a != b {
		t.Fatal("Expected the same pointer for repeated Counter lookups")
	}

	a.Add(3)
	if got := b.Load(); got != 3 {
		t.Errorf("Expected counter 3, got %d", got)
	}
}

func TestGaugeSetGet(t *testing.T) {
	r := NewRegistry()
	g := r.Gauge("anim.active")
	g.Set(2.5)
	if got := r.Gauge("anim.active").Get(); got != 2.5 {
		t.Errorf("Expected gauge 2.5, got %f", got)
	}
}

func TestSnapshotAndNames(t *testing.T) {
	r := NewRegistry()
	r.Counter("b").Add(1)
	r.Counter("a").Add(2)
	r.Gauge("z").Set(0.5)

	snap := r.Snapshot()
	if snap["a"] != 2 || snap["b"] != 1 || snap["z"] != 0.5 {
		t.Errorf("Unexpected snapshot: %v", snap)
	}

	names := r.Names()
	want := []string{"a", "b", "z"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected names[%d]=%s, got %s", i, want[i], names[i])
		}
	}
}

func TestConcurrentCounterCreation(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Counter("persist.saves").Add(1)
			}
		}()
	}
	wg.Wait()

	if got := r.Counter("persist.saves").Load(); got != 800 {
		t.Errorf("Expected 800, got %d", got)
	}
}
