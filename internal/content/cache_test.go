package content

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (s *countingSource) Document(_ context.Context, name string) (json.RawMessage, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{"id":"` + name + `"}`), nil
}

func TestCachedSourceServesFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	upstream := &countingSource{}
	reg := prometheus.NewRegistry()
	m := metrics.NewContactMetrics(reg)
	cache := NewCachedSource(upstream, client, time.Minute, m, quietLogger())

	first, err := cache.Document(context.Background(), DocHero)
	require.NoError(t, err)
	second, err := cache.Document(context.Background(), DocHero)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, int32(1), upstream.calls.Load())
	assert.True(t, mr.Exists("content:doc:hero"))
	assert.Equal(t, time.Minute, mr.TTL("content:doc:hero"))

	count, err := testutil.GatherAndCount(reg, "mcm_content_fetch_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCachedSourceExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	upstream := &countingSource{}
	cache := NewCachedSource(upstream, client, time.Minute, nil, quietLogger())

	_, err := cache.Document(context.Background(), DocNavigation)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = cache.Document(context.Background(), DocNavigation)
	require.NoError(t, err)

	assert.Equal(t, int32(2), upstream.calls.Load())
}

func TestCachedSourceCoalescesConcurrentMisses(t *testing.T) {
	upstream := &countingSource{delay: 50 * time.Millisecond}
	cache := NewCachedSource(upstream, nil, 0, nil, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Document(context.Background(), DocContactPage)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, upstream.calls.Load(), int32(10))
}

func TestCachedSourceDegradesWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	upstream := &countingSource{}
	cache := NewCachedSource(upstream, client, time.Minute, nil, quietLogger())
	mr.Close()

	raw, err := cache.Document(context.Background(), DocSiteSettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"siteSettings"}`, string(raw))
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	upstream := &countingSource{err: errors.New("cms down")}
	cache := NewCachedSource(upstream, client, time.Minute, nil, quietLogger())

	_, err := cache.Document(context.Background(), DocHero)
	require.Error(t, err)
	assert.False(t, mr.Exists("content:doc:hero"))

	_, err = cache.Document(context.Background(), "pricing")
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestCachedSourceInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	upstream := &countingSource{}
	cache := NewCachedSource(upstream, client, time.Minute, nil, quietLogger())

	_, err := cache.Document(context.Background(), DocHero)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background()))
	assert.False(t, mr.Exists("content:doc:hero"))
}
