package content

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/observability/metrics"
	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPrefix  = "content:doc:"
	DefaultCacheTTL = 5 * time.Minute
)

// CachedSource keeps reformatted documents in Redis. Concurrent misses for the
// same document share one upstream fetch. Redis failures fall through to the
// upstream source; the cache is never required for a read to succeed.
type CachedSource struct {
	upstream Source
	client   *redis.Client
	ttl      time.Duration
	group    singleflight.Group
	metrics  *metrics.ContactMetrics
	logger   *logging.Logger
}

// NewCachedSource wraps upstream. A nil client disables caching.
func NewCachedSource(upstream Source, client *redis.Client, ttl time.Duration, m *metrics.ContactMetrics, logger *logging.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedSource{
		upstream: upstream,
		client:   client,
		ttl:      ttl,
		metrics:  m,
		logger:   logger,
	}
}

func (c *CachedSource) key(name string) string {
	return cacheKeyPrefix + name
}

// Document returns the cached copy or fetches and stores it.
func (c *CachedSource) Document(ctx context.Context, name string) (json.RawMessage, error) {
	if _, ok := queries[name]; !ok {
		return nil, ErrUnknownDocument
	}

	if c.client != nil {
		data, err := c.client.Get(ctx, c.key(name)).Bytes()
		switch {
		case err == nil:
			c.metrics.ObserveContentFetch(name, "cache")
			return json.RawMessage(data), nil
		case errors.Is(err, redis.Nil):
		default:
			c.logger.Warn("content cache read failed", "document", name, "error", err)
		}
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		data, err := c.upstream.Document(ctx, name)
		if err != nil {
			return nil, err
		}
		c.metrics.ObserveContentFetch(name, "origin")
		if c.client != nil {
			if err := c.client.Set(ctx, c.key(name), []byte(data), c.ttl).Err(); err != nil {
				c.logger.Warn("content cache write failed", "document", name, "error", err)
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

// Invalidate drops cached copies of the named documents, or every document
// when none are named.
func (c *CachedSource) Invalidate(ctx context.Context, names ...string) error {
	if c.client == nil {
		return nil
	}
	if len(names) == 0 {
		names = Documents()
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, c.key(name))
	}
	return c.client.Del(ctx, keys...).Err()
}

var _ Source = (*CachedSource)(nil)
