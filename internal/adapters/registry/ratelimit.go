package registry

import (
	"context"
	"sync"
	"time"
)

// rateLimiter is a token bucket pacing outbound registry calls.
type rateLimiter struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	rate   float64 // tokens per second
	burst  int     // max tokens
}

// newRateLimiter builds a limiter allowing rate requests per second
// with the given burst. A rate of zero or less disables pacing.
func newRateLimiter(rate float64, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		tokens: float64(burst),
		last:   time.Now(),
		rate:   rate,
		burst:  burst,
	}
}

// Wait blocks until a token is available or the context ends.
func (rl *rateLimiter) Wait(ctx context.Context) error {
	if rl.rate <= 0 {
		return ctx.Err()
	}

	for {
		rl.mu.Lock()
		now := time.Now()
		elapsed := now.Sub(rl.last).Seconds()
		rl.last = now

		// Refill
		rl.tokens += elapsed * rl.rate
		if rl.tokens > float64(rl.burst) {
			rl.tokens = float64(rl.burst)
		}

		// Consume
		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}

		wait := time.Duration((1 - rl.tokens) / rl.rate * float64(time.Second))
		rl.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
