package exchange

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// RateLimitConfig holds rate limiting configuration for one platform's
// token endpoint.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// defaultRateLimits are deliberately conservative. Token exchanges are
// rare (one per handshake), but some marketplaces throttle the endpoint
// aggressively and lock the app out on abuse.
var defaultRateLimits = map[domain.Platform]RateLimitConfig{
	domain.PlatformShopify: {RequestsPerSecond: 2.0, BurstSize: 4},
	domain.PlatformEtsy:    {RequestsPerSecond: 1.0, BurstSize: 2},
	domain.PlatformEBay:    {RequestsPerSecond: 1.0, BurstSize: 2},
	domain.PlatformAmazon:  {RequestsPerSecond: 0.5, BurstSize: 1},
	domain.PlatformSquare:  {RequestsPerSecond: 2.0, BurstSize: 4},
}

// fallbackRateLimit applies to platforms without an explicit entry.
var fallbackRateLimit = RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 2}

// RateLimiter throttles token-endpoint calls per platform using a token
// bucket per marketplace.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[domain.Platform]*rate.Limiter
}

// NewRateLimiter creates a rate limiter with the default per-platform limits.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{limiters: make(map[domain.Platform]*rate.Limiter)}
}

// Wait blocks until a request to the platform's token endpoint may be
// made, or until the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context, platform domain.Platform) error {
	return r.limiterFor(platform).Wait(ctx)
}

func (r *RateLimiter) limiterFor(platform domain.Platform) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[platform]; ok {
		return l
	}
	cfg, ok := defaultRateLimits[platform]
	if !ok {
		cfg = fallbackRateLimit
	}
	l := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
	r.limiters[platform] = l
	return l
}
