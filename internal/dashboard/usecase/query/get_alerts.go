package query

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
)

// AlertsView lists products outside their stock levels
type AlertsView struct {
	LowStock  []domain.Product `json:"lowStock"`
	Overstock []domain.Product `json:"overstock"`
}

// GetAlertsHandler handles the stock alerts query
type GetAlertsHandler struct {
	client domain.CatalogClient
}

// NewGetAlertsHandler creates a new alerts handler
func NewGetAlertsHandler(client domain.CatalogClient) *GetAlertsHandler {
	return &GetAlertsHandler{client: client}
}

// Handle fetches low stock and overstock lists concurrently
func (h *GetAlertsHandler) Handle(ctx context.Context) (*AlertsView, error) {
	view := &AlertsView{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		low, err := h.client.ListLowStock(gctx)
		if err != nil {
			return fmt.Errorf("failed to list low stock: %w", err)
		}
		view.LowStock = nonNil(low)
		return nil
	})
	g.Go(func() error {
		over, err := h.client.ListOverstock(gctx)
		if err != nil {
			return fmt.Errorf("failed to list overstock: %w", err)
		}
		view.Overstock = nonNil(over)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
