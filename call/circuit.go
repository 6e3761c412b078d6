package call

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls flow normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without reaching the upstream.
	StateOpen
	// StateHalfOpen means a single trial call is probing for recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failed calls that opens
	// the circuit. Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before admitting a
	// trial call. Default: 30 seconds
	RecoveryTimeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)
}

// Breaker tracks consecutive failures of a logical upstream dependency and
// gates new calls while it is misbehaving.
//
// One breaker is shared by every call against the same operation profile, so
// all state transitions are serialized under a mutex. In particular the
// open-to-half-open transition and the admission of the single trial call
// happen atomically inside Allow: concurrent callers racing during the
// recovery window get exactly one probe between them.
type Breaker struct {
	config BreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probing     bool
}

// Snapshot is a point-in-time read of breaker state for health reporting.
type Snapshot struct {
	State       State
	Failures    int
	LastFailure time.Time
}

// NewBreaker creates a new circuit breaker.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 30 * time.Second
	}

	return &Breaker{
		config: config,
		state:  StateClosed,
	}
}

// Allow reports whether a new call may proceed.
//
// Closed always admits. Open rejects until RecoveryTimeout has elapsed since
// the last failure, at which point the breaker moves to half-open and admits
// the caller as the single trial; further callers are rejected until that
// trial resolves through OnSuccess or OnFailure.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(b.lastFailure) <= b.config.RecoveryTimeout {
			return false
		}
		b.transitionLocked(StateHalfOpen)
		b.probing = true
		return true

	case StateHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	}

	return false
}

// OnSuccess records a successful call: the failure streak resets and a
// half-open circuit closes.
func (b *Breaker) OnSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.probing = false
	if b.state != StateClosed {
		b.transitionLocked(StateClosed)
	}
}

// OnFailure records a failed call. In the closed state it extends the streak
// and opens the circuit at the threshold. A failed half-open trial reopens
// immediately with a fresh recovery window; there is no partial credit.
func (b *Breaker) OnFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.probing = false
		b.lastFailure = time.Now()
		b.transitionLocked(StateOpen)

	case StateClosed:
		b.failures++
		b.lastFailure = time.Now()
		if b.failures >= b.config.FailureThreshold {
			b.transitionLocked(StateOpen)
		}

	case StateOpen:
		// A call admitted before the circuit opened finished late.
		b.failures++
		b.lastFailure = time.Now()
	}
}

// Snapshot returns the current state and failure streak without side effects.
// Unlike Allow it never performs the open-to-half-open transition, so it is
// safe for health reporting to poll.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		State:       b.state,
		Failures:    b.failures,
		LastFailure: b.lastFailure,
	}
}

// Reset forces the breaker back to closed with a zero failure streak,
// regardless of its current state. Intended for operator recovery.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.probing = false
	if b.state != StateClosed {
		b.transitionLocked(StateClosed)
	}
}

func (b *Breaker) transitionLocked(to State) {
	from := b.state
	b.state = to
	if from != to && b.config.OnStateChange != nil {
		b.config.OnStateChange(from, to)
	}
}
