package repositories

import (
	"context"
	"time"
)

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error

	// SetNX is the advisory-lock primitive: true if the key was absent and
	// is now held by the caller until expiration.
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}
