package service

import "context"

// RateLimiter counts requests per identity in fixed windows.
type RateLimiter interface {
	// Allow records one request for the key and reports whether it is within the limit.
	// Implementations fail open: a backend error is returned with allowed=true.
	Allow(ctx context.Context, key string) (allowed bool, err error)

	Close() error
}
