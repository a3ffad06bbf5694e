// ABOUTME: Exponential backoff helper for archive write retries
// ABOUTME: Advisory LLM calls are single-attempt and must not use this
package util

import (
	"math/rand/v2"
	"time"
)

// maxBackoff caps a single sleep between retries
const maxBackoff = 30 * time.Second

// Backoff returns the delay before the given retry attempt: base doubled per
// attempt with up to +/-25% jitter, capped at 30s. Attempt 0 sleeps nothing.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30 // avoid shift overflow
	}
	d := base * time.Duration(1<<uint(attempt))
	if d <= 0 {
		return 0
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(d)/2)) - d/4
	return d + jitter
}
