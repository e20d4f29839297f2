package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"designator/internal/apperr"
	"designator/internal/designation"
	"designator/internal/repository"
)

func (o Options) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 10 * time.Millisecond
	eb.MaxInterval = 250 * time.Millisecond
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(o.MaxRetries)), ctx)
}

// retry re-runs op while it fails with a uniqueness violation. Any other error stops at once.
// Once the attempts are used up the violation is reported as a Conflict.
func (o Options) retry(ctx context.Context, kind designation.Kind, op func() error) error {
	err := backoff.RetryNotify(func() error {
		err := op()
		if err == nil || errors.Is(err, repository.ErrUniqueViolation) {
			return err
		}
		return backoff.Permanent(err)
	}, o.newBackOff(ctx), func(err error, wait time.Duration) {
		o.Metrics.observeRetry(kind)
		o.Logger.Debug("retrying after concurrent write", "kind", kind, "wait", wait, "error", err)
	})
	if errors.Is(err, repository.ErrUniqueViolation) {
		return apperr.Conflict("%s designation is being assigned concurrently, try again", kind)
	}
	return err
}
