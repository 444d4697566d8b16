// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/ctxutil"
	"github.com/taibuivan/wildoasis/internal/platform/respond"
)

// # Rate Limiting

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RateLimit rejects clients that exceed the limiter budget with 429. Clients
// are keyed by [TrustedProxies.ClientIP]. The RateLimit-* headers are set on
// every response. A failing limiter lets the request through.
func RateLimit(limiter Limiter, proxies TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision, err := limiter.Allow(request.Context(), proxies.ClientIP(request))
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "rate_limit_unavailable", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
			header.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			header.Set("RateLimit-Reset", strconv.Itoa(seconds(decision.ResetAfter)))

			if !decision.Allowed {
				header.Set(constants.HeaderRetryAfter, strconv.Itoa(seconds(decision.RetryAfter)))
				respond.Error(writer, request, apperr.RateLimited(constants.RateLimitMessage))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func seconds(duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Ceil(duration.Seconds()))
}

// # In-Process Limiter

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per client in memory. Each bucket holds
// limit tokens and refills completely over window.
type LocalLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	burst   int
	every   rate.Limit
	window  time.Duration
	now     func() time.Time
}

// NewLocalLimiter creates the limiter and starts the cleanup routine, which
// stops when ctx is cancelled.
func NewLocalLimiter(ctx context.Context, limit int, window time.Duration) *LocalLimiter {
	limiter := &LocalLimiter{
		clients: make(map[string]*rateLimitClient),
		burst:   limit,
		every:   rate.Every(window / time.Duration(limit)),
		window:  window,
		now:     time.Now,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.evict()
			case <-ctx.Done():
				return
			}
		}
	}()

	return limiter
}

// WithClock replaces the time source. Used by tests.
func (limiter *LocalLimiter) WithClock(now func() time.Time) *LocalLimiter {
	limiter.now = now
	return limiter
}

// Allow implements [Limiter].
func (limiter *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	client, found := limiter.clients[key]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(limiter.every, limiter.burst)}
		limiter.clients[key] = client
	}
	client.lastSeen = now

	allowed := client.limiter.AllowN(now, 1)
	tokens := client.limiter.TokensAt(now)

	decision := Decision{
		Allowed:    allowed,
		Limit:      limiter.burst,
		Remaining:  max(int(tokens), 0),
		ResetAfter: limiter.refill(float64(limiter.burst) - tokens),
	}
	if !allowed {
		decision.RetryAfter = limiter.refill(1 - tokens)
	}
	return decision, nil
}

// refill is the time needed to regain the given number of tokens.
func (limiter *LocalLimiter) refill(tokens float64) time.Duration {
	if tokens <= 0 {
		return 0
	}
	return time.Duration(tokens / float64(limiter.every) * float64(time.Second))
}

func (limiter *LocalLimiter) evict() {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	for key, client := range limiter.clients {
		if now.Sub(client.lastSeen) > max(constants.RateLimitClientTTL, limiter.window) {
			delete(limiter.clients, key)
		}
	}
}

// # Shared Limiter

// RedisLimiter shares the budget between API instances through Redis, using
// the GCRA implementation of redis_rate.
type RedisLimiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
}

// NewRedisLimiter creates a limiter allowing limit requests per window.
func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis_rate.NewLimiter(client),
		limit:   redis_rate.Limit{Rate: limit, Burst: limit, Period: window},
	}
}

// Allow implements [Limiter].
func (limiter *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	result, err := limiter.limiter.Allow(ctx, constants.RedisPrefixRateLimit+key, limiter.limit)
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		Allowed:    result.Allowed > 0,
		Limit:      limiter.limit.Burst,
		Remaining:  result.Remaining,
		ResetAfter: result.ResetAfter,
		RetryAfter: result.RetryAfter,
	}, nil
}
