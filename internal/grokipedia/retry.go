package grokipedia

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Backoff returns a duration for attempt n (0-indexed) with jitter, doubling
// from base and capped at limit.
func Backoff(attempt int, base, limit time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt > 16 {
		attempt = 16
	}
	d := base << uint(attempt)
	if d > limit {
		d = limit
	}
	jitter := time.Duration(rand.Int64N(int64(d)/2 + 1))
	return d + jitter
}

// retryCondition retries transport failures, 429, 408 and 5xx responses.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	return (&APIError{StatusCode: r.StatusCode()}).Retryable()
}

// retryAfter honors a Retry-After header given in seconds. Returning zero lets
// resty fall back to its own jittered backoff.
func retryAfter(wait, maxWait time.Duration) resty.RetryAfterFunc {
	return func(_ *resty.Client, r *resty.Response) (time.Duration, error) {
		if r == nil || r.StatusCode() != http.StatusTooManyRequests {
			return 0, nil
		}
		if secs, err := strconv.Atoi(r.Header().Get("Retry-After")); err == nil && secs >= 0 {
			return min(time.Duration(secs)*time.Second, maxWait), nil
		}
		attempt := 0
		if r.Request != nil {
			attempt = r.Request.Attempt
		}
		return Backoff(attempt, wait, maxWait), nil
	}
}
