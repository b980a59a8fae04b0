// Package ratelimit implements the request rate limiter on Redis.
package ratelimit

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"foodorder/config"
	"foodorder/internal/domain/lifecycle"
	"foodorder/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const (
	defaultRequests = 100
	defaultWindow   = time.Minute
	keyPrefix       = "rate:"
)

// redisLimiter is a fixed window counter: INCR on rate:<key>:<window index>,
// with the expiry set when the window's first request arrives.
type redisLimiter struct {
	client   redis.Cmdable
	closer   func() error
	requests int64
	window   time.Duration
	now      func() time.Time
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

func (noopLimiter) Close() error { return nil }

// Params holds dependencies for the limiter, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewRateLimiter builds the limiter from configuration. A disabled limiter
// lets every request through.
func NewRateLimiter(params Params) service.RateLimiter {
	cfg := params.Config.RateLimit
	if cfg == nil || !cfg.Enabled || params.Config.Redis == nil {
		params.Logger.Info("Rate limiting disabled")

		return noopLimiter{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     params.Config.Redis.Addr,
		Password: params.Config.Redis.Password,
		DB:       params.Config.Redis.DB,
	})
	limiter := newRedisLimiter(client, cfg.Requests, cfg.Window)
	limiter.closer = client.Close

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			// The limiter fails open, so an unreachable Redis is not fatal.
			if err := client.Ping(pingCtx).Err(); err != nil {
				params.Logger.Warn("Redis unreachable, rate limiting fails open", slog.Any("error", err))
			}

			return nil
		},
		OnStop: func(context.Context) error {
			return limiter.Close()
		},
	})

	return limiter
}

func newRedisLimiter(client redis.Cmdable, requests int, window time.Duration) *redisLimiter {
	if requests <= 0 {
		requests = defaultRequests
	}
	if window <= 0 {
		window = defaultWindow
	}

	return &redisLimiter{
		client:   client,
		requests: int64(requests),
		window:   window,
		now:      time.Now,
	}
}

// Allow counts the request and reports whether the key is still within the window limit.
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowSeconds := max(int64(l.window/time.Second), 1)
	windowIndex := l.now().Unix() / windowSeconds
	redisKey := keyPrefix + key + ":" + strconv.FormatInt(windowIndex, 10)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, errors.Wrap(err, "rate limit incr")
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, errors.Wrap(err, "rate limit expire")
		}
	}

	return count <= l.requests, nil
}

func (l *redisLimiter) Close() error {
	if l.closer == nil {
		return nil
	}

	return errors.WithStack(l.closer())
}
