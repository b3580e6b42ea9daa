package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-dashboard/internal/dashboard/catalogtest"
	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
)

var sizes = PageSizes{Dashboard: 10, Inventory: 10, Forecast: 10}

func newLoader(fake *catalogtest.Fake) *dataset.Loader {
	cache := snapshot.NewCache(snapshot.NewMemoryStore(), nil)
	return dataset.NewLoader(fake, cache, snapshot.NewFingerprinter(snapshot.ModeBoundary))
}

func intPtr(i int) *int { return &i }

func TestDashboardRendersFromSnapshotAfterFirstFetch(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(7)...)
	h := NewGetDashboardHandler(newLoader(fake), sizes)

	view, err := h.Handle(ctx, GetDashboardQuery{Client: "alice"})
	require.NoError(t, err)
	assert.Equal(t, dataset.SourceNetwork, view.Source)
	assert.Len(t, view.TopProducts, TopProductsCount)
	assert.Equal(t, int64(7), view.Stats.TotalProducts)

	view, err = h.Handle(ctx, GetDashboardQuery{Client: "alice"})
	require.NoError(t, err)
	assert.Equal(t, dataset.SourceCache, view.Source)
	assert.Equal(t, 1, fake.Calls("ListProducts"))
}

func TestDashboardClampsAndPersistsPage(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(25)...)
	h := NewGetDashboardHandler(newLoader(fake), sizes)

	view, err := h.Handle(ctx, GetDashboardQuery{Client: "alice", Page: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Pagination.Page)
	assert.Equal(t, 3, view.Pagination.TotalPages)
	require.Len(t, view.Products, 5)
	assert.Equal(t, "P-021", view.Products[0].SKU)

	view, err = h.Handle(ctx, GetDashboardQuery{Client: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Pagination.Page, "persisted page is restored")

	view, err = h.Handle(ctx, GetDashboardQuery{Client: "bob"})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Pagination.Page, "pages are per client")
}

func TestDashboardResetsPageWhenDatasetChanges(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(catalogtest.Numbered(25)...)
	loader := newLoader(fake)
	h := NewGetDashboardHandler(loader, sizes)

	_, err := h.Handle(ctx, GetDashboardQuery{Page: intPtr(2)})
	require.NoError(t, err)

	fake.SetProducts(catalogtest.Numbered(30))
	_, err = loader.FetchProducts(ctx)
	require.NoError(t, err)

	view, err := h.Handle(ctx, GetDashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Pagination.Page)
	assert.Equal(t, "30:P-001:P-030", view.Fingerprint)
}

func TestDashboardEmptyDataset(t *testing.T) {
	h := NewGetDashboardHandler(newLoader(catalogtest.New()), sizes)

	view, err := h.Handle(context.Background(), GetDashboardQuery{Page: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Pagination.Page)
	assert.Equal(t, 1, view.Pagination.TotalPages)
	assert.Empty(t, view.Products)
	assert.Equal(t, snapshot.EmptyFingerprint, view.Fingerprint)
}

func TestDashboardFetchFailure(t *testing.T) {
	fake := catalogtest.New()
	fake.Err = fmt.Errorf("dial: %w", domain.ErrTransport)
	h := NewGetDashboardHandler(newLoader(fake), sizes)

	_, err := h.Handle(context.Background(), GetDashboardQuery{})
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestInventoryClampsToLastServerPage(t *testing.T) {
	fake := catalogtest.New(catalogtest.Numbered(25)...)
	h := NewGetInventoryHandler(fake, sizes)

	view, err := h.Handle(context.Background(), GetInventoryQuery{Page: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Pagination.Page)
	assert.Len(t, view.Products, 5)
	assert.Equal(t, "Showing 5 of 25 products (page 3 of 3)", view.Summary)
	assert.Equal(t, 2, fake.Calls("ListPage"))
}

func TestInventoryFiltersLoadedPageOnly(t *testing.T) {
	products := catalogtest.Numbered(25)
	products[3].InventoryStatus = domain.StatusLowStock
	products[22].InventoryStatus = domain.StatusLowStock
	fake := catalogtest.New(products...)
	h := NewGetInventoryHandler(fake, sizes)

	view, err := h.Handle(context.Background(), GetInventoryQuery{Page: 0, Status: "low stock"})
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "P-004", view.Products[0].SKU)
	assert.Equal(t, 10, view.PageCount)
	assert.Equal(t, int64(25), view.Pagination.TotalRecords)

	view, err = h.Handle(context.Background(), GetInventoryQuery{Page: 0, Search: "p-01", Status: "all"})
	require.NoError(t, err)
	assert.Len(t, view.Products, 1, "only P-010 is on page 0")
}

func TestCategoryName(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New(
		catalogtest.Product(1, "T-1", "Hammer", "Tools", 10, domain.StatusInStock),
		catalogtest.Product(2, "T-2", "Wrench", "Tools", 1, domain.StatusLowStock),
	)
	h := NewGetCategoryHandler(fake)

	view, err := h.Handle(ctx, GetCategoryQuery{CategoryID: catalogtest.CategoryID("Tools")})
	require.NoError(t, err)
	assert.Equal(t, "Tools", view.CategoryName)
	assert.Len(t, view.Products, 2)

	view, err = h.Handle(ctx, GetCategoryQuery{CategoryID: 424242})
	require.NoError(t, err)
	assert.Equal(t, UnknownCategory, view.CategoryName)
	assert.Empty(t, view.Products)

	_, err = h.Handle(ctx, GetCategoryQuery{CategoryID: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAlerts(t *testing.T) {
	fake := catalogtest.New(
		catalogtest.Product(1, "A", "Low", "", 2, domain.StatusLowStock),
		catalogtest.Product(2, "B", "Fine", "", 50, domain.StatusInStock),
		catalogtest.Product(3, "C", "High", "", 150, domain.StatusOverstock),
	)
	view, err := NewGetAlertsHandler(fake).Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, view.LowStock, 1)
	require.Len(t, view.Overstock, 1)
	assert.Equal(t, "A", view.LowStock[0].SKU)
	assert.Equal(t, "C", view.Overstock[0].SKU)
}

func TestTrendsAggregatesPerCategory(t *testing.T) {
	fake := catalogtest.New(
		catalogtest.Product(1, "A", "a", "Tools", 3, domain.StatusInStock),
		catalogtest.Product(2, "B", "b", "Garden", 1, domain.StatusInStock),
		catalogtest.Product(3, "C", "c", "Tools", 2, domain.StatusInStock),
		catalogtest.Product(4, "D", "d", "", 4, domain.StatusInStock),
	)
	view, err := NewGetTrendsHandler(newLoader(fake)).Handle(context.Background())
	require.NoError(t, err)

	require.Len(t, view.Categories, 3)
	assert.Equal(t, "Tools", view.Categories[0].Name)
	assert.Equal(t, 2, view.Categories[0].ProductCount)
	assert.Equal(t, int64(5), view.Categories[0].Units)
	assert.Equal(t, "50", view.Categories[0].TotalRevenue.String())
	assert.Equal(t, "Unknown", view.Categories[2].Name)

	require.Len(t, view.BottomProducts, 3)
	assert.Equal(t, "D", view.BottomProducts[0].SKU)
	assert.Equal(t, "A", view.TopProducts[0].SKU)
}

func forecastRecords(n int) []domain.ForecastRecord {
	out := make([]domain.ForecastRecord, n)
	actions := []domain.ForecastAction{domain.ActionRestock, domain.ActionDiscount, domain.ActionNoAction}
	for i := range out {
		out[i] = domain.ForecastRecord{SKUID: fmt.Sprintf("S-%02d", i+1), Action: actions[i%3]}
	}
	return out
}

func TestForecastBeforeGeneration(t *testing.T) {
	h := NewGetForecastHandler(newLoader(catalogtest.New()), sizes)

	view, err := h.Handle(context.Background(), GetForecastQuery{})
	require.NoError(t, err)
	assert.Empty(t, view.Records)
	assert.Nil(t, view.LastGenerated)
	assert.Equal(t, 1, view.Pagination.TotalPages)
}

func TestForecastPagesSnapshot(t *testing.T) {
	ctx := context.Background()
	fake := catalogtest.New()
	fake.SetForecast(forecastRecords(12), nil)
	loader := newLoader(fake)
	records, err := loader.RunForecast(ctx)
	require.NoError(t, err)
	loader.SaveForecast(ctx, records)

	h := NewGetForecastHandler(loader, sizes)
	view, err := h.Handle(ctx, GetForecastQuery{Client: "c", Page: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Pagination.Page)
	assert.Len(t, view.Records, 2)
	assert.Equal(t, 4, view.ActionSummary[domain.ActionRestock])
	assert.NotNil(t, view.LastGenerated)

	view, err = h.Handle(ctx, GetForecastQuery{Client: "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Pagination.Page)

	fake.SetForecast(forecastRecords(5), nil)
	records, err = loader.RunForecast(ctx)
	require.NoError(t, err)
	loader.SaveForecast(ctx, records)

	view, err = h.Handle(ctx, GetForecastQuery{Client: "c"})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Pagination.Page, "new forecast resets the page")
}

func TestForecastStatus(t *testing.T) {
	fake := catalogtest.New()
	fake.SetForecast(nil, domain.ForecastStatus{"status": "ready"})

	status, err := NewGetForecastStatusHandler(fake).Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", status["status"])
}
