package ratelimit

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/logger"
)

const (
	defaultKeyPrefix        = "marketplace-indexer:limiter:"
	defaultFallbackFraction = 0.5

	// redisRecheckInterval is how long the pacer stays on the local limiter after a Redis failure
	redisRecheckInterval = 10 * time.Second
)

// Config describes the request budget of one upstream API
type Config struct {
	// Name identifies the budget; processes sharing a name share the budget through Redis
	Name              string
	RequestsPerSecond float64
	Burst             int
	KeyPrefix         string
	// LocalFallbackFraction scales the local limiter used while Redis is unreachable,
	// since several processes may fall back at once
	LocalFallbackFraction float64
}

// pacer spaces out requests to an upstream API across every indexer process
// A local limiter pre-filters requests before they reach Redis and takes over when Redis fails
type pacer struct {
	name        string
	key         string
	limit       redis_rate.Limit
	distributed adapter.RedisRateLimiter
	preFilter   *rate.Limiter
	local       *rate.Limiter
	clock       adapter.Clock

	mu          sync.Mutex
	redisDownAt time.Time
}

// NewPacer creates the pacer of an API budget
// With a nil limiter the budget is enforced per process only
func NewPacer(cfg Config, distributed adapter.RedisRateLimiter, clock adapter.Clock) (adapter.Pacer, error) {
	if cfg.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("pacer %s: requests per second must be positive", cfg.Name)
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cfg.LocalFallbackFraction <= 0 {
		cfg.LocalFallbackFraction = defaultFallbackFraction
	}

	perSecond := int(math.Ceil(cfg.RequestsPerSecond))
	if cfg.Burst <= 0 {
		cfg.Burst = perSecond
	}

	localRate := max(cfg.RequestsPerSecond*cfg.LocalFallbackFraction, 1.0)

	p := &pacer{
		name:        cfg.Name,
		key:         cfg.KeyPrefix + cfg.Name,
		limit:       redis_rate.PerSecond(perSecond),
		distributed: distributed,
		preFilter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		local:       rate.NewLimiter(rate.Limit(localRate), cfg.Burst),
		clock:       clock,
	}

	if distributed == nil {
		// nothing to share the budget with: the full rate applies locally
		p.local = p.preFilter
	}

	return p, nil
}

func (p *pacer) redisAvailable() bool {
	if p.distributed == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.redisDownAt.IsZero() || p.clock.Since(p.redisDownAt) >= redisRecheckInterval
}

func (p *pacer) markRedis(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err == nil {
		if !p.redisDownAt.IsZero() {
			logger.Info("Redis rate limiter restored", zap.String("budget", p.name))
		}
		p.redisDownAt = time.Time{}
		return
	}

	if p.redisDownAt.IsZero() {
		logger.Warn("Redis rate limiter error, falling back to local", zap.String("budget", p.name), zap.Error(err))
	}
	p.redisDownAt = p.clock.Now()
}

// Wait blocks until a request may be sent or ctx is done
func (p *pacer) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !p.redisAvailable() {
			return p.local.Wait(ctx)
		}

		if err := p.preFilter.Wait(ctx); err != nil {
			return err
		}

		res, err := p.distributed.Allow(ctx, p.key, p.limit)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.markRedis(err)
			continue
		}
		p.markRedis(nil)

		if res.Allowed > 0 {
			return nil
		}

		// spread the retries of competing processes over 50-150% of retryAfter
		jitter := time.Duration(float64(res.RetryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
		logger.Debug("Rate limit token unavailable, waiting",
			zap.String("budget", p.name),
			zap.Duration("retry_after", res.RetryAfter))
		if err := p.clock.SleepContext(ctx, jitter); err != nil {
			return err
		}
	}
}
