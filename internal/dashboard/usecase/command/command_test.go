package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-dashboard/internal/dashboard/catalogtest"
	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/sequence"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
)

type recordingPublisher struct {
	mu       sync.Mutex
	products []domain.Product
	previous []int
	err      error
}

func (p *recordingPublisher) PublishInventoryUpdated(_ context.Context, product domain.Product, previousCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.products = append(p.products, product)
	p.previous = append(p.previous, previousCount)
	return p.err
}

type supersededCounter struct {
	mu    sync.Mutex
	count int
}

func (c *supersededCounter) Superseded(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

func newLoader(fake *catalogtest.Fake) *dataset.Loader {
	cache := snapshot.NewCache(snapshot.NewMemoryStore(), nil)
	return dataset.NewLoader(fake, cache, snapshot.NewFingerprinter(snapshot.ModeBoundary))
}

func loadProducts(t *testing.T, l *dataset.Loader) (snapshot.Snapshot[dataset.Products], bool) {
	t.Helper()
	snap, ok, err := snapshot.LoadSnapshot[dataset.Products](context.Background(), l.Cache(), snapshot.SnapshotProducts)
	require.NoError(t, err)
	return snap, ok
}

func TestUpdateInventoryRefreshesSnapshotAndPublishes(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(3)...)
	loader := newLoader(fake)
	_, err := loader.FetchProducts(ctx)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	h := NewUpdateInventoryHandler(fake, loader, pub)

	updated, err := h.Handle(ctx, UpdateInventoryCommand{ProductID: 2, InventoryCount: 77})
	require.NoError(t, err)
	assert.Equal(t, 77, updated.InventoryCount)

	snap, ok := loadProducts(t, loader)
	require.True(t, ok)
	assert.Equal(t, 77, snap.Data.Products[1].InventoryCount)

	require.Len(t, pub.products, 1)
	assert.Equal(t, int64(2), pub.products[0].ID)
	assert.Equal(t, 20, pub.previous[0])
}

func TestUpdateInventoryRejectsNegativeCount(t *testing.T) {
	fake := catalogtest.New(catalogtest.Numbered(1)...)
	h := NewUpdateInventoryHandler(fake, newLoader(fake), nil)

	_, err := h.Handle(context.Background(), UpdateInventoryCommand{ProductID: 1, InventoryCount: -3})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, fake.Calls("UpdateInventory"))
}

func TestUpdateInventoryFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(3)...)
	loader := newLoader(fake)
	before, err := loader.FetchProducts(ctx)
	require.NoError(t, err)

	fake.UpdateErr = &domain.StatusError{Method: "PATCH", Path: "/products/1", StatusCode: 500}
	pub := &recordingPublisher{}
	h := NewUpdateInventoryHandler(fake, loader, pub)

	_, err = h.Handle(ctx, UpdateInventoryCommand{ProductID: 1, InventoryCount: 5})
	assert.ErrorIs(t, err, domain.ErrTransport)

	after, ok := loadProducts(t, loader)
	require.True(t, ok)
	assert.Equal(t, before.Fingerprint, after.Fingerprint)
	assert.Equal(t, 20, after.Data.Products[0].InventoryCount)
	assert.Empty(t, pub.products)
	assert.Equal(t, 1, fake.Calls("ListProducts"))
}

func TestUpdateInventoryUnknownProduct(t *testing.T) {
	fake := catalogtest.New(catalogtest.Numbered(1)...)
	h := NewUpdateInventoryHandler(fake, newLoader(fake), nil)

	_, err := h.Handle(context.Background(), UpdateInventoryCommand{ProductID: 99, InventoryCount: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateInventoryInvalidatesWhenRefreshFails(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(2)...)
	loader := newLoader(fake)
	_, err := loader.FetchProducts(ctx)
	require.NoError(t, err)

	fake.Hook = func(call string) {
		if call == "GetStats" {
			fake.SetErr(domain.ErrTransport)
		}
	}
	h := NewUpdateInventoryHandler(fake, loader, nil)

	_, err = h.Handle(ctx, UpdateInventoryCommand{ProductID: 1, InventoryCount: 9})
	require.NoError(t, err)

	_, ok := loadProducts(t, loader)
	assert.False(t, ok)
}

func TestUpdateInventoryPublishFailureIsNotFatal(t *testing.T) {
	fake := catalogtest.New(catalogtest.Numbered(1)...)
	pub := &recordingPublisher{err: errors.New("broker down")}
	h := NewUpdateInventoryHandler(fake, newLoader(fake), pub)

	_, err := h.Handle(context.Background(), UpdateInventoryCommand{ProductID: 1, InventoryCount: 4})
	assert.NoError(t, err)
}

func TestRefreshDashboardOverwritesSnapshot(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(3)...)
	loader := newLoader(fake)
	h := NewRefreshDashboardHandler(loader, sequence.New(), nil)

	snap, err := h.Handle(ctx, RefreshDashboardCommand{Client: "a"})
	require.NoError(t, err)
	assert.Equal(t, "3:P-001:P-003", snap.Fingerprint)

	fake.SetProducts(catalogtest.Numbered(4))
	snap, err = h.Handle(ctx, RefreshDashboardCommand{Client: "a"})
	require.NoError(t, err)
	assert.Equal(t, "4:P-001:P-004", snap.Fingerprint)

	stored, ok := loadProducts(t, loader)
	require.True(t, ok)
	assert.Equal(t, snap.Fingerprint, stored.Fingerprint)
}

func TestRefreshDashboardDiscardsSupersededResponse(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(3)...)
	loader := newLoader(fake)
	seq := sequence.New()
	counter := &supersededCounter{}
	h := NewRefreshDashboardHandler(loader, seq, counter)

	issued := false
	fake.Hook = func(call string) {
		if call == "ListProducts" && !issued {
			issued = true
			seq.Issue(sequence.Key(string(snapshot.ViewDashboard), "a"))
		}
	}

	_, err := h.Handle(ctx, RefreshDashboardCommand{Client: "a"})
	assert.ErrorIs(t, err, domain.ErrSuperseded)
	assert.Equal(t, 1, counter.count)

	_, ok := loadProducts(t, loader)
	assert.False(t, ok, "superseded data is not stored")
}

func TestGenerateForecastStoresSnapshot(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New()
	fake.SetForecast([]domain.ForecastRecord{{SKUID: "A"}, {SKUID: "Z"}}, nil)
	loader := newLoader(fake)
	h := NewGenerateForecastHandler(loader, sequence.New(), nil)

	snap, err := h.Handle(ctx, GenerateForecastCommand{Client: "a"})
	require.NoError(t, err)
	assert.Equal(t, "2:A:Z", snap.Fingerprint)

	stored, ok, err := loader.Forecast(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored.Data, 2)
}

func TestGenerateForecastFailure(t *testing.T) {
	fake := catalogtest.New()
	fake.Err = domain.ErrTransport
	h := NewGenerateForecastHandler(newLoader(fake), sequence.New(), nil)

	_, err := h.Handle(context.Background(), GenerateForecastCommand{})
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestInvalidateProductsSkipsOwnEvents(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(2)...)
	loader := newLoader(fake)
	_, err := loader.FetchProducts(ctx)
	require.NoError(t, err)

	h := NewInvalidateProductsHandler(loader, "me")

	require.NoError(t, h.Handle(ctx, InvalidateProductsCommand{Source: "me", ProductID: 1}))
	_, ok := loadProducts(t, loader)
	assert.True(t, ok)

	require.NoError(t, h.Handle(ctx, InvalidateProductsCommand{Source: "other", ProductID: 1}))
	_, ok = loadProducts(t, loader)
	assert.False(t, ok)
}

// stalledCatalog holds back the result of its first ListProducts call until
// release is closed, as a slow upstream response would
type stalledCatalog struct {
	*catalogtest.Fake
	once    sync.Once
	fetched chan struct{}
	release chan struct{}
}

func newStalledCatalog(fake *catalogtest.Fake) *stalledCatalog {
	return &stalledCatalog{Fake: fake, fetched: make(chan struct{}), release: make(chan struct{})}
}

func (c *stalledCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := c.Fake.ListProducts(ctx)
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.fetched)
		<-c.release
	}
	return products, err
}

type refreshResult struct {
	snap snapshot.Snapshot[dataset.Products]
	err  error
}

func startRefresh(h *RefreshDashboardHandler, client string) <-chan refreshResult {
	done := make(chan refreshResult, 1)
	go func() {
		snap, err := h.Handle(context.Background(), RefreshDashboardCommand{Client: client})
		done <- refreshResult{snap: snap, err: err}
	}()
	return done
}

func TestInventoryEditSurvivesRefreshInFlight(t *testing.T) {
	ctx := context.Background()
	catalog := newStalledCatalog(catalogtest.New(catalogtest.Numbered(3)...))
	loader := dataset.NewLoader(catalog, snapshot.NewCache(snapshot.NewMemoryStore(), nil), snapshot.NewFingerprinter(snapshot.ModeBoundary))

	refresh := NewRefreshDashboardHandler(loader, sequence.New(), nil)
	edit := NewUpdateInventoryHandler(catalog, loader, nil)

	done := startRefresh(refresh, "a")
	<-catalog.fetched

	_, err := edit.Handle(ctx, UpdateInventoryCommand{ProductID: 1, InventoryCount: 77})
	require.NoError(t, err)
	stored, ok := loadProducts(t, loader)
	require.True(t, ok)
	require.Equal(t, 77, stored.Data.Products[0].InventoryCount)

	close(catalog.release)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 77, res.snap.Data.Products[0].InventoryCount, "refresh returns the newer snapshot")

	stored, ok = loadProducts(t, loader)
	require.True(t, ok)
	assert.Equal(t, 77, stored.Data.Products[0].InventoryCount)
}

func TestSlowRefreshDoesNotOverwriteOtherClient(t *testing.T) {
	catalog := newStalledCatalog(catalogtest.New(catalogtest.Numbered(3)...))
	loader := dataset.NewLoader(catalog, snapshot.NewCache(snapshot.NewMemoryStore(), nil), snapshot.NewFingerprinter(snapshot.ModeBoundary))
	h := NewRefreshDashboardHandler(loader, sequence.New(), nil)

	slow := startRefresh(h, "a")
	<-catalog.fetched

	catalog.SetProducts(catalogtest.Numbered(4))
	fast := <-startRefresh(h, "b")
	require.NoError(t, fast.err)
	assert.Equal(t, "4:P-001:P-004", fast.snap.Fingerprint)

	close(catalog.release)
	res := <-slow
	require.NoError(t, res.err)
	assert.Equal(t, "4:P-001:P-004", res.snap.Fingerprint)

	stored, ok := loadProducts(t, loader)
	require.True(t, ok)
	assert.Equal(t, "4:P-001:P-004", stored.Fingerprint)
}

func TestRemoteInvalidationDropsRefreshInFlight(t *testing.T) {
	ctx := context.Background()
	catalog := newStalledCatalog(catalogtest.New(catalogtest.Numbered(3)...))
	loader := dataset.NewLoader(catalog, snapshot.NewCache(snapshot.NewMemoryStore(), nil), snapshot.NewFingerprinter(snapshot.ModeBoundary))
	h := NewRefreshDashboardHandler(loader, sequence.New(), nil)

	done := startRefresh(h, "a")
	<-catalog.fetched

	require.NoError(t, NewInvalidateProductsHandler(loader, "me").Handle(ctx, InvalidateProductsCommand{Source: "other", ProductID: 1}))

	close(catalog.release)
	res := <-done
	require.NoError(t, res.err)
	assert.Len(t, res.snap.Data.Products, 3)

	_, ok := loadProducts(t, loader)
	assert.False(t, ok, "data fetched before the remote edit is not stored")
}
