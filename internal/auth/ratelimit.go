package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LimiterConfig configures how many failed logins a client may make.
type LimiterConfig struct {
	Enabled           bool `json:"enabled" mapstructure:"enabled"`
	FailuresPerMinute int  `json:"failuresPerMinute" mapstructure:"failures_per_minute"` // Refill rate
	BurstSize         int  `json:"burstSize" mapstructure:"burst_size"`                  // Failures before lockout
	CleanupInterval   int  `json:"cleanupInterval" mapstructure:"cleanup_interval"`      // Seconds between cleanup runs
}

// DefaultLimiterConfig returns sensible defaults
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Enabled:           true,
		FailuresPerMinute: 6,
		BurstSize:         10,
		CleanupInterval:   300,
	}
}

// FailureLimiter is a token bucket per client that only failed attempts drain.
// Clients with an empty bucket are refused until it refills.
type FailureLimiter struct {
	config  LimiterConfig
	buckets map[string]*tokenBucket
	mu      sync.Mutex
	logger  *slog.Logger
	now     func() time.Time
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewFailureLimiter creates a new limiter
func NewFailureLimiter(config LimiterConfig, logger *slog.Logger) *FailureLimiter {
	if config.FailuresPerMinute <= 0 {
		config.FailuresPerMinute = 6
	}
	if config.BurstSize <= 0 {
		config.BurstSize = 10
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 300
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &FailureLimiter{
		config:  config,
		buckets: make(map[string]*tokenBucket),
		logger:  logger,
		now:     time.Now,
	}
}

// Check reports whether key may attempt to authenticate.
// When refused, retryAfter is the number of seconds until the next attempt.
func (l *FailureLimiter) Check(key string) (allowed bool, retryAfter int) {
	if !l.config.Enabled {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		return true, 0
	}
	l.refill(bucket)

	if bucket.tokens >= 1.0 {
		return true, 0
	}

	tokensNeeded := 1.0 - bucket.tokens
	secondsUntilToken := tokensNeeded / l.ratePerSecond()
	return false, int(secondsUntilToken) + 1
}

// Fail records a failed attempt for key.
func (l *FailureLimiter) Fail(key string) {
	if !l.config.Enabled {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &tokenBucket{
			tokens:     float64(l.config.BurstSize),
			lastRefill: l.now(),
		}
		l.buckets[key] = bucket
	}
	l.refill(bucket)

	bucket.tokens--
	if bucket.tokens < 1.0 {
		l.logger.Warn("Client locked out after repeated auth failures", "client", key)
	}
}

// Reset forgets key, e.g. after a successful login.
func (l *FailureLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.buckets, key)
}

func (l *FailureLimiter) refill(bucket *tokenBucket) {
	now := l.now()
	elapsed := now.Sub(bucket.lastRefill)
	bucket.lastRefill = now

	bucket.tokens += elapsed.Seconds() * l.ratePerSecond()
	if bucket.tokens > float64(l.config.BurstSize) {
		bucket.tokens = float64(l.config.BurstSize)
	}
}

func (l *FailureLimiter) ratePerSecond() float64 {
	return float64(l.config.FailuresPerMinute) / 60.0
}

// StartCleanup starts a background goroutine to clean up stale buckets
func (l *FailureLimiter) StartCleanup(ctx context.Context) {
	if !l.config.Enabled {
		return
	}

	go func() {
		ticker := time.NewTicker(time.Duration(l.config.CleanupInterval) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
}

// cleanup removes buckets that have not seen a failure for 10 minutes.
func (l *FailureLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-10 * time.Minute)
	removed := 0

	for key, bucket := range l.buckets {
		if bucket.lastRefill.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}

	if removed > 0 {
		l.logger.Debug("Auth limiter cleanup",
			"removed_buckets", removed,
			"remaining", len(l.buckets),
		)
	}
}
