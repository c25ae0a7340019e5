package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
)

// RetryPolicy bounds how transient storage failures are retried.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
}

// DefaultRetryPolicy retries once after a short pause.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 1, InitialInterval: 25 * time.Millisecond}

// retryTransient runs op, retrying only errors store.IsTransient accepts.
// Any other error stops immediately and is returned unwrapped.
func retryTransient(ctx context.Context, p RetryPolicy, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialInterval
	bo.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !store.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, p.MaxRetries), ctx))
}
