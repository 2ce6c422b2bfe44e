package syncer

import (
	"fmt"
	"log"
	"time"
)

// retryConfig wraps an operation with exponential back-off. Components never
// retry themselves; the syncer owns the policy.
type retryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (r retryConfig) Do(operationName string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			log.Printf("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
