package service

import (
	"context"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
)

// withRetry runs fn once plus up to maxRetries more times while it fails with
// a storage conflict. It returns the number of attempts made.
func withRetry(ctx context.Context, op string, maxRetries int, fn func() error) (int, error) {
	attempts := 0
	for {
		attempts++
		err := fn()
		if err == nil || !domain.IsRetryable(err) || attempts > maxRetries {
			return attempts, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return attempts, err
		}
		logger.Warn("Retrying after storage conflict", "operation", op, "attempt", attempts, "error", err)
	}
}
