package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"slices"
	"time"
)

// ErrRetryExhausted is returned, wrapped with the last request error, when
// every attempt allowed by the RetryPolicy failed.
var ErrRetryExhausted = errors.New("backend: all retry attempts exhausted")

// RetryPolicy controls how failed backend calls are retried. Zero fields take
// the defaults noted on each field. The zero RetryPolicy passed to
// [Client.WithRetry] therefore enables retries with defaults; a client without
// WithRetry never retries.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one. Default: 2.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default: 500ms.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between attempts. Default: 10s.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the wait after each retry. Default: 2.
	BackoffFactor float64

	// JitterFraction adds up to this fraction of the wait as random noise.
	// Default: 0.1.
	JitterFraction float64

	// RetryableStatus lists the HTTP status codes worth retrying.
	// Default: 429, 500, 502, 503, 504.
	RetryableStatus []int
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxRetries == 0 {
		p.MaxRetries = 2
	}
	if p.InitialBackoff == 0 {
		p.InitialBackoff = 500 * time.Millisecond
	}
	if p.MaxBackoff == 0 {
		p.MaxBackoff = 10 * time.Second
	}
	if p.BackoffFactor == 0 {
		p.BackoffFactor = 2
	}
	if p.JitterFraction == 0 {
		p.JitterFraction = 0.1
	}
	if len(p.RetryableStatus) == 0 {
		p.RetryableStatus = []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		}
	}
	return p
}

// backoff returns the wait before retry number attempt (0-indexed):
// min(InitialBackoff * BackoffFactor^attempt, MaxBackoff) plus jitter.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := float64(p.InitialBackoff) * math.Pow(p.BackoffFactor, float64(attempt))
	base = math.Min(base, float64(p.MaxBackoff))
	jitter := base * p.JitterFraction * rand.Float64() //nolint:gosec // jitter does not need a secure source
	return time.Duration(base + jitter)
}

// retryable reports whether an attempt that ended with res and err should be
// repeated. Context errors never are; transport errors without a response
// always are.
func (p RetryPolicy) retryable(res *http.Response, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if res == nil {
		return true
	}
	return slices.Contains(p.RetryableStatus, res.StatusCode)
}

// retry runs attempt until it succeeds, fails with a non-retryable error, or
// the policy is exhausted.
func retry[T any](ctx context.Context, policy *RetryPolicy, attempt func(context.Context) (*http.Response, T, error)) (*http.Response, T, error) {
	if policy == nil {
		return attempt(ctx)
	}

	var (
		res     *http.Response
		result  T
		lastErr error
	)
	for i := 0; i <= policy.MaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, result, ctx.Err()
			case <-time.After(policy.backoff(i - 1)):
			}
		}

		res, result, lastErr = attempt(ctx)
		if lastErr == nil || !policy.retryable(res, lastErr) {
			return res, result, lastErr
		}
	}
	return res, result, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, policy.MaxRetries, lastErr)
}
