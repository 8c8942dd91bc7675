package patterns

import (
	"errors"
	"fmt"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/metrics"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// IsSuccessful lets callers count some errors (client errors, conflicts)
// as successful calls so they do not trip the breaker.
type IsSuccessful func(err error) bool

// CircuitBreaker wraps gobreaker with metrics.
type CircuitBreaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// NewCircuitBreaker creates a breaker that trips when at least 60% of 3 or
// more calls in a 15s window fail, and lets a trial call through after 30s.
func NewCircuitBreaker[T any](name string, isSuccessful IsSuccessful) *CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(cbName).Set(stateValue(to))

			log.WithFields(log.Fields{
				"circuit": cbName,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("Circuit breaker state changed")
		},
	}
	if isSuccessful != nil {
		settings.IsSuccessful = isSuccessful
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return &CircuitBreaker[T]{
		cb:   gobreaker.NewCircuitBreaker[T](settings),
		name: name,
	}
}

// Execute runs fn through the breaker.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		metrics.CircuitBreakerFailures.WithLabelValues(c.name).Inc()
	}
	return result, FormatError(c.name, err)
}

func (c *CircuitBreaker[T]) Name() string {
	return c.name
}

// State returns "closed", "open" or "half-open".
func (c *CircuitBreaker[T]) State() string {
	return c.cb.State().String()
}

// ErrUnavailable is returned while a breaker rejects calls.
var ErrUnavailable = errors.New("service unavailable")

// FormatError replaces breaker rejections with an error wrapping
// ErrUnavailable; other errors pass through untouched.
func FormatError(circuitName string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) {
		return fmt.Errorf("circuit breaker %s is open: %w", circuitName, ErrUnavailable)
	}
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit breaker %s: too many requests in half-open state: %w", circuitName, ErrUnavailable)
	}
	return err
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
