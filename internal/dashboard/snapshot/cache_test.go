package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
)

type countingObserver struct {
	hits, misses, resets int
}

func (o *countingObserver) SnapshotHit(string)  { o.hits++ }
func (o *countingObserver) SnapshotMiss(string) { o.misses++ }
func (o *countingObserver) PageReset(string)    { o.resets++ }

func TestCachePageRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewCache(NewMemoryStore(), nil)

	_, ok, err := c.LoadPage(ctx, ViewDashboard, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SavePage(ctx, ViewDashboard, "alice", 2, "fpA"))

	st, ok, err := c.LoadPage(ctx, ViewDashboard, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, "fpA", st.Fingerprint)

	_, ok, err = c.LoadPage(ctx, ViewForecast, "alice")
	require.NoError(t, err)
	assert.False(t, ok, "views are independent")
}

func TestRestorePageResetsOnStaleFingerprint(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{}
	c := NewCache(NewMemoryStore(), obs)

	require.NoError(t, c.SavePage(ctx, ViewDashboard, "", 2, "fpA"))

	assert.Equal(t, 2, c.RestorePage(ctx, ViewDashboard, "", "fpA"))
	assert.Equal(t, 0, c.RestorePage(ctx, ViewDashboard, "", "fpB"))
	assert.Equal(t, 1, obs.resets)
	assert.Equal(t, 0, c.RestorePage(ctx, ViewForecast, "", "fpA"))
}

func TestRestorePageDiscardsGarbage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewCache(store, nil)

	require.NoError(t, store.Set(ctx, pageKey(ViewDashboard, DefaultClient), []byte("{not json")))
	assert.Equal(t, 0, c.RestorePage(ctx, ViewDashboard, DefaultClient, "fp"))
}

func TestSnapshotRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{}
	c := NewCache(NewMemoryStore(), obs)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	_, ok, err := LoadSnapshot[[]domain.Product](ctx, c, SnapshotProducts)
	require.NoError(t, err)
	assert.False(t, ok)

	data := products("A", "B")
	_, err = SaveSnapshot(ctx, c, SnapshotProducts, data, "2:A:B")
	require.NoError(t, err)

	snap, ok, err := LoadSnapshot[[]domain.Product](ctx, c, SnapshotProducts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2:A:B", snap.Fingerprint)
	assert.Equal(t, fixed, snap.FetchedAt)
	require.Len(t, snap.Data, 2)
	assert.Equal(t, "B", snap.Data[1].SKU)

	require.NoError(t, c.Invalidate(ctx, SnapshotProducts))
	_, ok, err = LoadSnapshot[[]domain.Product](ctx, c, SnapshotProducts)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 2, obs.misses)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, time.Hour)
	require.NoError(t, store.Ping(ctx))

	_, err := store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))
	v, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)
	assert.Equal(t, time.Hour, mr.TTL("k"))

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrNotFound))

	c := NewCache(NewTracingStore(store, "redis"), nil)
	require.NoError(t, c.SavePage(ctx, ViewForecast, "bob", 3, "fp"))
	assert.Equal(t, 3, c.RestorePage(ctx, ViewForecast, "bob", "fp"))
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'z'

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "k", "other"))
	assert.Equal(t, 0, s.Len())
}
