package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-dashboard/internal/dashboard/catalogtest"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
)

func newLoader(fake *catalogtest.Fake) *Loader {
	cache := snapshot.NewCache(snapshot.NewMemoryStore(), nil)
	return NewLoader(fake, cache, snapshot.NewFingerprinter(snapshot.ModeBoundary))
}

func TestProductsFetchesOnceThenServesSnapshot(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(3)...)
	l := newLoader(fake)

	snap, src, err := l.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, src)
	assert.Len(t, snap.Data.Products, 3)
	assert.Equal(t, int64(3), snap.Data.Stats.TotalProducts)
	assert.Equal(t, "3:P-001:P-003", snap.Fingerprint)

	snap, src, err = l.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
	assert.Len(t, snap.Data.Products, 3)
	assert.Equal(t, 1, fake.Calls("ListProducts"))
	assert.Equal(t, 1, fake.Calls("GetStats"))
}

func TestProductsFetchFailureIsReturned(t *testing.T) {
	fake := catalogtest.New()
	fake.Err = domain.ErrTransport
	l := newLoader(fake)

	_, _, err := l.Products(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestFetchLeavesSnapshotAlone(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(2)...)
	l := newLoader(fake)

	data, err := l.Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Products, 2)

	_, ok, err := snapshot.LoadSnapshot[Products](ctx, l.Cache(), snapshot.SnapshotProducts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidateProductsForcesFetch(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(2)...)
	l := newLoader(fake)

	_, _, err := l.Products(ctx)
	require.NoError(t, err)
	require.NoError(t, l.InvalidateProducts(ctx))

	_, src, err := l.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, src)
	assert.Equal(t, 2, fake.Calls("ListProducts"))
}

func TestForecastRunThenSave(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New()
	fake.SetForecast([]domain.ForecastRecord{
		{SKUID: "A", Action: domain.ActionRestock},
		{SKUID: "B", Action: domain.ActionDiscount},
	}, nil)
	l := newLoader(fake)

	_, ok, err := l.Forecast(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	records, err := l.RunForecast(ctx)
	require.NoError(t, err)
	_, ok, err = l.Forecast(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	gen := l.SaveForecast(ctx, records)
	assert.Equal(t, "2:A:B", gen.Fingerprint)

	snap, ok, err := l.Forecast(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, snap.Data, 2)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestCommitProductsKeepsNewerWrite(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(3)...)
	l := newLoader(fake)

	stale := l.BeginProducts()
	old, err := l.Fetch(ctx)
	require.NoError(t, err)

	fake.SetProducts(catalogtest.Numbered(5))
	_, err = l.FetchProducts(ctx)
	require.NoError(t, err)

	snap, applied := l.CommitProducts(ctx, stale, old)
	assert.False(t, applied)
	assert.Equal(t, "5:P-001:P-005", snap.Fingerprint)

	stored, ok, err := snapshot.LoadSnapshot[Products](ctx, l.Cache(), snapshot.SnapshotProducts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "5:P-001:P-005", stored.Fingerprint)
}

func TestCommitForecastKeepsNewerWrite(t *testing.T) {
	ctx := context.Background()
	l := newLoader(catalogtest.New())

	stale := l.BeginForecast()
	l.SaveForecast(ctx, []domain.ForecastRecord{{SKUID: "B"}, {SKUID: "C"}})

	snap, applied := l.CommitForecast(ctx, stale, []domain.ForecastRecord{{SKUID: "A"}})
	assert.False(t, applied)
	assert.Equal(t, "2:B:C", snap.Fingerprint)
}
