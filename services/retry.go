package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
)

// withWriteRetry runs op, retrying transient store failures with exponential
// backoff. Constraint violations, missing rows and validation errors are
// returned immediately.
func withWriteRetry(ctx context.Context, retries uint64, name string, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	eb.MaxInterval = time.Second
	b := backoff.WithContext(backoff.WithMaxRetries(eb, retries), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		log.Printf("⚠️ [RETRY] %s attempt %d failed: %v", name, attempt, err)
		return err
	}, b)
}

func isPermanent(err error) bool {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
