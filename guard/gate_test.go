package guard

import (
	"errors"
	"sync"
	"testing"
)

func TestGate_AcquireRelease(t *testing.T) {
	g := NewGate(2)

	if err := g.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := g.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := g.Acquire(); !errors.Is(err, ErrGateFull) {
		t.Errorf("Acquire() at capacity = %v, want ErrGateFull", err)
	}

	g.Release()
	if err := g.Acquire(); err != nil {
		t.Errorf("Acquire() after release error = %v", err)
	}
}

func TestGate_Stats(t *testing.T) {
	g := NewGate(1)

	_ = g.Acquire()
	_ = g.Acquire() // rejected

	stats := g.Stats()
	if stats.Active != 1 {
		t.Errorf("Active = %d, want 1", stats.Active)
	}
	if stats.Peak != 1 {
		t.Errorf("Peak = %d, want 1", stats.Peak)
	}
	if stats.Capacity != 1 {
		t.Errorf("Capacity = %d, want 1", stats.Capacity)
	}
	if stats.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", stats.Rejected)
	}
}

func TestGate_UnpairedReleaseIsHarmless(t *testing.T) {
	g := NewGate(1)

	g.Release()
	if got := g.Stats().Active; got != 0 {
		t.Errorf("Active = %d after unpaired release, want 0", got)
	}
}

func TestGate_Concurrent(t *testing.T) {
	g := NewGate(4)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(); err == nil {
				g.Release()
			}
		}()
	}
	wg.Wait()

	stats := g.Stats()
	if stats.Active != 0 {
		t.Errorf("Active = %d after all released, want 0", stats.Active)
	}
	if stats.Peak > 4 {
		t.Errorf("Peak = %d, want <= capacity 4", stats.Peak)
	}
}
