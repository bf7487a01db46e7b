package domain

import (
	"context"
	"time"
)

// Cache is a key-value side-cache with TTL, used in front of the primary
// store. Implementations store values as JSON. Cache failures must never
// fail a request; callers fall back to the authoritative store.
type Cache interface {
	// Get unmarshals the cached value for key into dest. The bool reports
	// whether the key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
