package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

const maxAttempts = 3

// Read retries op with exponential backoff and jitter, up to three
// attempts. It is meant for idempotent reads only; lifecycle writes must
// not be wrapped because a retried insert or update can double-apply.
// Domain-classified errors are definitive answers, not outages, and are
// returned after the first attempt.
func Read[T any](ctx context.Context, op func(ctx context.Context) (T, error)) (T, error) {
	policy := backoff.WithContext(newPolicy(), ctx)

	var result T
	err := backoff.Retry(func() error {
		var opErr error
		result, opErr = op(ctx)
		if opErr != nil {
			if _, ok := domain.KindOf(opErr); ok {
				return backoff.Permanent(opErr)
			}
		}
		return opErr
	}, backoff.WithMaxRetries(policy, maxAttempts-1))

	return result, err
}

func newPolicy() *backoff.ExponentialBackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	policy.RandomizationFactor = 0.5
	return policy
}
