package redis

import (
	"context"
	"time"
)

// MemStorage is the session-store surface the auth middleware consumes.
type MemStorage interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
}
