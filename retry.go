package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// isRetriableError checks if the error describes a missing or forbidden
// resource. These are skipped per item rather than failing the run.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	// Common OCI errors that mean "nothing to see here" for one item
	return strings.Contains(errStr, "NotFound") ||
		strings.Contains(errStr, "NotAuthorized") ||
		strings.Contains(errStr, "Forbidden") ||
		strings.Contains(errStr, "does not exist")
}

// isTransientError checks if the error is transient and worth retrying
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

// withRetry executes an operation with exponential backoff on transient
// errors. Non-transient errors return immediately.
func withRetry(ctx context.Context, operation func() error, maxRetries int, operationName string, log *Logger) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if !isTransientError(err) {
			return err
		}

		if attempt == maxRetries {
			return fmt.Errorf("operation '%s' failed after %d attempts: %w", operationName, maxRetries+1, err)
		}

		// Exponential backoff with jitter (up to 30 seconds max)
		backoff := time.Duration(math.Min(math.Pow(2, float64(attempt)), 30)) * time.Second
		jitter := time.Duration(float64(backoff) * 0.1 * (2*rand.Float64() - 1))
		sleepTime := backoff + jitter
		if sleepTime < 0 {
			sleepTime = backoff
		}

		log.Verbose("Retrying %s in %v (attempt %d/%d): %v", operationName, sleepTime, attempt+1, maxRetries+1, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepTime):
		}
	}
	return nil
}

// newRemoteCallBreaker creates the circuit breaker shared by all fan-out
// workers of a run. When the remote API keeps failing, the breaker opens
// and remaining items fail fast as failure markers instead of each one
// grinding through full retry backoff.
func newRemoteCallBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// callRemote runs a remote operation through the breaker with retry.
// Retriable (not-found, forbidden) errors do not count against the
// breaker; everything else does.
func callRemote(ctx context.Context, cb *gobreaker.CircuitBreaker, operationName string, log *Logger, operation func() error) error {
	res, err := cb.Execute(func() (interface{}, error) {
		err := withRetry(ctx, operation, 3, operationName, log)
		if err != nil && isRetriableError(err) {
			// Hand the skip back to the caller without tripping the breaker
			return err, nil
		}
		return nil, err
	})
	if err != nil {
		return err
	}
	if skipErr, ok := res.(error); ok {
		return skipErr
	}
	return nil
}
