package fetcher

import (
	"time"

	retry "github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

const (
	DefaultPageSize = 1000
	DefaultBackoff  = time.Second
	DefaultThrottle = 100 * time.Millisecond
)

// RetryPolicy decides how often a failed page request is repeated.
// MaxAttempts == 0 retries forever: a sync run bets on NetBox coming back.
type RetryPolicy struct {
	Backoff     time.Duration
	MaxAttempts uint64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Backoff: DefaultBackoff}
}

func (p RetryPolicy) backoff() retry.Backoff {
	d := p.Backoff
	if d <= 0 {
		d = time.Millisecond
	}

	b := retry.NewConstant(d)
	if p.MaxAttempts > 0 {
		b = retry.WithMaxRetries(p.MaxAttempts-1, b)
	}
	return b
}

// NewThrottle returns a limiter that lets one request pass every interval.
// A zero interval disables throttling.
func NewThrottle(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
