package query

import (
	"context"
	"time"

	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/pagination"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// TopProductsCount is the number of products in the dashboard highlight table
const TopProductsCount = 5

// PageSizes holds the page size of each paginated view
type PageSizes struct {
	Dashboard int
	Inventory int
	Forecast  int
}

// GetDashboardQuery represents the query for the dashboard view.
// A nil Page restores the persisted page of Client.
type GetDashboardQuery struct {
	Client string
	Page   *int
}

// DashboardView is the dashboard view model
type DashboardView struct {
	Stats       domain.ProductStats   `json:"stats"`
	TopProducts []domain.Product      `json:"topProducts"`
	Products    []domain.Product      `json:"products"`
	Pagination  pagination.Descriptor `json:"pagination"`
	Source      dataset.Source        `json:"source"`
	Fingerprint string                `json:"fingerprint"`
	FetchedAt   time.Time             `json:"fetchedAt"`
}

// GetDashboardHandler handles the dashboard query
type GetDashboardHandler struct {
	loader   *dataset.Loader
	pageSize int
}

// NewGetDashboardHandler creates a new dashboard handler
func NewGetDashboardHandler(loader *dataset.Loader, sizes PageSizes) *GetDashboardHandler {
	return &GetDashboardHandler{loader: loader, pageSize: pagination.NormalizeSize(sizes.Dashboard)}
}

// Handle renders the dashboard from the snapshot, fetching only when none is stored
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardView, error) {
	snap, source, err := h.loader.Products(ctx)
	if err != nil {
		return nil, err
	}
	return h.Render(ctx, snap, source, q), nil
}

// Render builds the view for snap, restoring, clamping and persisting the page of q.Client
func (h *GetDashboardHandler) Render(ctx context.Context, snap snapshot.Snapshot[dataset.Products], source dataset.Source, q GetDashboardQuery) *DashboardView {
	cache := h.loader.Cache()
	products := snap.Data.Products

	var requested int
	if q.Page != nil {
		requested = *q.Page
	} else {
		requested = cache.RestorePage(ctx, snapshot.ViewDashboard, q.Client, snap.Fingerprint)
	}

	pager := pagination.NewLocal(products, h.pageSize)
	page := pager.SetPage(requested)

	if err := cache.SavePage(ctx, snapshot.ViewDashboard, q.Client, page, snap.Fingerprint); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to persist dashboard page")
	}

	top := products
	if len(top) > TopProductsCount {
		top = top[:TopProductsCount]
	}

	return &DashboardView{
		Stats:       snap.Data.Stats,
		TopProducts: top,
		Products:    pager.Visible(),
		Pagination:  pager.Descriptor(),
		Source:      source,
		Fingerprint: snap.Fingerprint,
		FetchedAt:   snap.FetchedAt,
	}
}
