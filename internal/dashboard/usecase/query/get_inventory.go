package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/filter"
	"github.com/tair/inventory-dashboard/internal/dashboard/pagination"
)

// GetInventoryQuery represents the query for one page of the inventory table
type GetInventoryQuery struct {
	Page   int
	Search string
	Status string
}

// InventoryView is the inventory table view model. Filtering applies to the
// loaded server page only, so Showing counts matches on this page.
type InventoryView struct {
	Products   []domain.Product      `json:"products"`
	Pagination pagination.Descriptor `json:"pagination"`
	Criteria   filter.Criteria       `json:"criteria"`
	Showing    int                   `json:"showing"`
	PageCount  int                   `json:"pageCount"`
	Summary    string                `json:"summary"`
}

// GetInventoryHandler handles the inventory query
type GetInventoryHandler struct {
	client   domain.CatalogClient
	pageSize int
}

// NewGetInventoryHandler creates a new inventory handler
func NewGetInventoryHandler(client domain.CatalogClient, sizes PageSizes) *GetInventoryHandler {
	return &GetInventoryHandler{client: client, pageSize: pagination.NormalizeSize(sizes.Inventory)}
}

// Handle loads the requested server page and filters it
func (h *GetInventoryHandler) Handle(ctx context.Context, q GetInventoryQuery) (*InventoryView, error) {
	pager := pagination.NewRemote(h.fetchPage, h.pageSize)
	if err := pager.Load(ctx, q.Page); err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	criteria := filter.Criteria{Search: q.Search, Status: q.Status}
	items := pager.Items()
	visible := filter.Apply(items, criteria)
	desc := pager.Descriptor()

	return &InventoryView{
		Products:   visible,
		Pagination: desc,
		Criteria:   criteria,
		Showing:    len(visible),
		PageCount:  len(items),
		Summary: fmt.Sprintf("Showing %d of %d products (page %d of %d)",
			len(visible), desc.TotalRecords, desc.Page+1, desc.TotalPages),
	}, nil
}

func (h *GetInventoryHandler) fetchPage(ctx context.Context, page, size int) (pagination.RemotePage[domain.Product], error) {
	res, err := h.client.ListPage(ctx, page, size)
	if err != nil {
		return pagination.RemotePage[domain.Product]{}, err
	}
	items := res.Content
	if items == nil {
		items = []domain.Product{}
	}
	return pagination.RemotePage[domain.Product]{
		Items:        items,
		TotalPages:   res.TotalPages,
		TotalRecords: res.TotalElements,
	}, nil
}
