package guard

import "sync"

// Gate bounds the number of calls in flight against one profile. Admission
// never blocks: an over-capacity call is rejected immediately so the caller
// can surface the overload instead of queueing behind it.
type Gate struct {
	sem chan struct{}

	mu       sync.Mutex
	active   int
	peak     int
	rejected int64
}

// GateStats is a point-in-time read of gate occupancy.
type GateStats struct {
	Active   int
	Peak     int
	Capacity int
	Rejected int64
}

// NewGate creates a gate admitting at most capacity concurrent calls.
// Non-positive capacity falls back to 10.
func NewGate(capacity int) *Gate {
	if capacity <= 0 {
		capacity = 10
	}
	return &Gate{sem: make(chan struct{}, capacity)}
}

// Acquire claims a slot, returning ErrGateFull when none is free. Every
// successful Acquire must be paired with a Release.
func (g *Gate) Acquire() error {
	select {
	case g.sem <- struct{}{}:
		g.mu.Lock()
		g.active++
		if g.active > g.peak {
			g.peak = g.active
		}
		g.mu.Unlock()
		return nil
	default:
		g.mu.Lock()
		g.rejected++
		g.mu.Unlock()
		return ErrGateFull
	}
}

// Release frees a slot claimed by Acquire.
func (g *Gate) Release() {
	select {
	case <-g.sem:
		g.mu.Lock()
		g.active--
		g.mu.Unlock()
	default:
		// Unpaired release; nothing to free.
	}
}

// Stats returns current gate occupancy.
func (g *Gate) Stats() GateStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return GateStats{
		Active:   g.active,
		Peak:     g.peak,
		Capacity: cap(g.sem),
		Rejected: g.rejected,
	}
}
