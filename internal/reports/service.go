// Package reports serves the dashboard statistics and roster exports. Stats
// come from the core API and are cached in Redis so every admin opening the
// dashboard does not hammer the backend.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
)

const (
	statsKey = "webadmin:stats"

	// DefaultCacheTTL keeps dashboard numbers at most this stale.
	DefaultCacheTTL = 5 * time.Minute
)

// Service caches dashboard statistics.
type Service struct {
	client *backend.Client
	cache  *redis.Client
	ttl    time.Duration
}

func New(client *backend.Client, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{client: client, cache: cache, ttl: ttl}
}

// Stats returns the dashboard statistics, from cache when fresh. The raw
// JSON passes through untouched; the console owns the chart shapes.
func (s *Service) Stats(ctx context.Context, token string) (json.RawMessage, error) {
	if raw, err := s.cache.Get(ctx, statsKey).Bytes(); err == nil {
		return raw, nil
	}
	return s.Refresh(ctx, token)
}

// Refresh fetches fresh statistics and rewrites the cache. The cron job
// calls this with the configured service token so the dashboard stays warm
// between admin visits.
func (s *Service) Refresh(ctx context.Context, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, token, "/webadmin/stats", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}

	// a failed cache write only costs the next request a refetch
	_ = s.cache.Set(ctx, statsKey, []byte(raw), s.ttl).Err()

	return raw, nil
}

// Invalidate drops the cached statistics.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Del(ctx, statsKey).Err()
}
