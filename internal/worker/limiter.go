package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter bounds the rate of outbound analysis calls. All batch workers
// share one limiter because they all talk to the same provider endpoint.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a rate limiter allowing requestsPerSecond sustained
// with the given burst
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until the next call is allowed or the context is cancelled
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call is allowed right now, without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// WaitWithDelay waits for rate limit clearance and adds an additional delay
func (l *Limiter) WaitWithDelay(ctx context.Context, additionalDelay time.Duration) error {
	if err := l.Wait(ctx); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}
