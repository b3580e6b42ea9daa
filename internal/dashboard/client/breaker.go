package client

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// ErrCircuitOpen is returned without contacting the upstream while the breaker is open
var ErrCircuitOpen = fmt.Errorf("circuit breaker is open: %w", domain.ErrTransport)

// BreakerState represents the state of a circuit breaker
type BreakerState string

const (
	StateClosed   BreakerState = "closed"
	StateOpen     BreakerState = "open"
	StateHalfOpen BreakerState = "half-open"
)

// Breaker fails fast after repeated upstream failures
type Breaker struct {
	name            string
	maxFailures     int
	openTimeout     time.Duration
	halfOpenSuccess int
	state           BreakerState
	failures        int
	successCount    int
	lastFailureTime time.Time
	lastStateChange time.Time
	now             func() time.Time
	mu              sync.Mutex
}

// NewBreaker creates a closed breaker. maxFailures below 1 disables it.
func NewBreaker(name string, maxFailures int, openTimeout time.Duration) *Breaker {
	return &Breaker{
		name:            name,
		maxFailures:     maxFailures,
		openTimeout:     openTimeout,
		halfOpenSuccess: 3,
		state:           StateClosed,
		now:             time.Now,
		lastStateChange: time.Now(),
	}
}

// Call runs fn unless the breaker is open. Only errors matching ErrTransport
// count as failures; a 404 or a decode error says nothing about availability.
func (b *Breaker) Call(fn func() error) error {
	if b == nil || b.maxFailures < 1 {
		return fn()
	}

	b.mu.Lock()
	if b.state == StateOpen && b.now().Sub(b.lastStateChange) > b.openTimeout {
		b.setState(StateHalfOpen)
		b.successCount = 0
	}
	open := b.state == StateOpen
	b.mu.Unlock()

	if open {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil && isAvailabilityFailure(err) {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

func isAvailabilityFailure(err error) bool {
	var se *domain.StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return errors.Is(err, domain.ErrTransport)
}

func (b *Breaker) onFailure() {
	b.failures++
	b.lastFailureTime = b.now()

	switch {
	case b.state == StateHalfOpen:
		b.setState(StateOpen)
		logger.Logger.Warn().
			Str("circuit", b.name).
			Msg("Circuit breaker reopened after half-open failure")
	case b.failures >= b.maxFailures && b.state == StateClosed:
		b.setState(StateOpen)
		logger.Logger.Error().
			Str("circuit", b.name).
			Int("failures", b.failures).
			Int("threshold", b.maxFailures).
			Msg("Circuit breaker opened")
	}
}

func (b *Breaker) onSuccess() {
	switch b.state {
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.halfOpenSuccess {
			b.setState(StateClosed)
			b.failures = 0
			b.successCount = 0
			logger.Logger.Info().
				Str("circuit", b.name).
				Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) setState(s BreakerState) {
	b.state = s
	b.lastStateChange = b.now()
}

// State returns the current state
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns breaker statistics for the health endpoint
func (b *Breaker) Stats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"name":              b.name,
		"state":             b.state,
		"failures":          b.failures,
		"max_failures":      b.maxFailures,
		"last_failure_time": b.lastFailureTime,
		"last_state_change": b.lastStateChange,
	}
}
