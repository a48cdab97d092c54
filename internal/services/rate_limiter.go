package services

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// RateLimiter throttles AI calls per telegram user with a token bucket.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
	counter  atomic.Int64
}

// NewRateLimiter allows perMinute calls per user with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute float64, burst int) *RateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Duration(float64(time.Minute) / perMinute))
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Allow consumes a token for the user or returns ErrRateLimitExceeded.
func (r *RateLimiter) Allow(telegramID int64) error {
	if r.get(telegramID).Allow() {
		return nil
	}
	return apperrors.ErrRateLimitExceeded
}

func (r *RateLimiter) get(telegramID int64) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[telegramID]
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[telegramID] = l
	}

	if r.counter.Add(1)%1000 == 0 {
		r.cleanup()
	}
	return l
}

// cleanup drops users whose bucket has refilled, they are idle.
func (r *RateLimiter) cleanup() {
	for id, l := range r.limiters {
		if l.Tokens() >= float64(r.burst) {
			delete(r.limiters, id)
		}
	}
}
