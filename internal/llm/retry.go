package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

type retryingProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry retries failures worth another try with jittered exponential
// backoff. Rejected and truncated requests fail at once. An invalid
// response is retried once.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retryingProvider{inner: p, cfg: cfg}
}

func (r *retryingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		hint       time.Duration
		sawInvalid  bool
	)
	return retry.DoValue(ctx, r.backoff(&hint), func(ctx context.Context) (*Response, error) {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		var e *Error
		if !errors.As(err, &e) {
			return nil, retry.RetryableError(err)
		}
		switch e.Kind {
		case KindRejected, KindTruncated:
			return nil, err
		case KindInvalidResponse:
			if sawInvalid {
				return nil, err
			}
			sawInvalid = true
		case KindRateLimited:
			hint = e.RetryAfter
		}
		return nil, retry.RetryableError(err)
	})
}

func (r *retryingProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff doubles from InitialWait with 20% jitter, capped at MaxWait.
// A non-zero *hint replaces the next wait once.
func (r *retryingProvider) backoff(hint *time.Duration) retry.Backoff {
	b := retry.NewExponential(max(r.cfg.InitialWait, time.Millisecond))
	b = retry.WithJitterPercent(20, b)
	if r.cfg.MaxWait > 0 {
		b = retry.WithCappedDuration(r.cfg.MaxWait, b)
	}
	b = retry.WithMaxRetries(uint64(max(r.cfg.MaxAttempts-1, 0)), b)

	return retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := b.Next()
		if stop {
			return 0, true
		}
		if *hint > 0 {
			next, *hint = *hint, 0
		}
		return next, false
	})
}
