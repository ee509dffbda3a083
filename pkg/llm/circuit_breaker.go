package llm

import (
	"sync"
	"time"
)

// CircuitState represents the current state of the circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	// Threshold is the number of consecutive failures before the circuit trips.
	Threshold int `yaml:"threshold" env:"CIRCUIT_BREAKER_THRESHOLD" env-default:"5"`
	// ResetAfter is how long the circuit stays open before a probe is let through.
	ResetAfter time.Duration `yaml:"reset_after" env:"CIRCUIT_BREAKER_RESET_AFTER" env-default:"30s"`
}

// DefaultCircuitBreakerConfig returns the defaults used when config omits the section.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Threshold:  5,
		ResetAfter: 30 * time.Second,
	}
}

// CircuitBreaker stops calling a provider that keeps failing, so a dead
// fallback service does not add its timeout to every unanswered question.
type CircuitBreaker struct {
	mu          sync.Mutex
	cfg         CircuitBreakerConfig
	now         func() time.Time
	failures    int
	openedAt    time.Time
	state       CircuitState
	probeActive bool
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultCircuitBreakerConfig().Threshold
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Allow reports whether a call may proceed. Once ResetAfter has elapsed on an
// open circuit exactly one probe is allowed; its outcome decides the next state.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.ResetAfter {
			return NewError(ErrorTypeCircuit, "fallback provider unavailable", false, nil)
		}
		cb.state = CircuitHalfOpen
		cb.probeActive = true
		return nil
	case CircuitHalfOpen:
		if cb.probeActive {
			return NewError(ErrorTypeCircuit, "probe already in flight", false, nil)
		}
		cb.probeActive = true
		return nil
	default:
		return nil
	}
}

// RecordSuccess closes the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.state = CircuitClosed
	cb.probeActive = false
}

// RecordFailure counts a failure and opens the circuit at the threshold or
// when a half-open probe fails.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.probeActive = false
	if cb.state == CircuitHalfOpen || cb.failures >= cb.cfg.Threshold {
		cb.state = CircuitOpen
		cb.openedAt = cb.now()
	}
}

// Release ends a call without counting it either way, e.g. when the caller
// went away. A half-open circuit lets the next call probe.
func (cb *CircuitBreaker) Release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probeActive = false
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// ConsecutiveFailures returns the number of failures since the last success.
func (cb *CircuitBreaker) ConsecutiveFailures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
