package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// InvalidateProductsCommand reports an inventory change made by instance Source
type InvalidateProductsCommand struct {
	Source    string
	ProductID int64
}

// InvalidateProductsHandler drops the product snapshot when another instance edits inventory
type InvalidateProductsHandler struct {
	loader   *dataset.Loader
	instance string
}

// NewInvalidateProductsHandler creates a new invalidation handler for instance
func NewInvalidateProductsHandler(loader *dataset.Loader, instance string) *InvalidateProductsHandler {
	return &InvalidateProductsHandler{loader: loader, instance: instance}
}

// Handle invalidates the snapshot unless the change originated here; the
// originating instance already refreshed it.
func (h *InvalidateProductsHandler) Handle(ctx context.Context, cmd InvalidateProductsCommand) error {
	if cmd.Source != "" && cmd.Source == h.instance {
		return nil
	}

	if err := h.loader.InvalidateProducts(ctx); err != nil {
		return fmt.Errorf("failed to invalidate products: %w", err)
	}

	logger.Info(ctx).
		Str("source", cmd.Source).
		Int64("product_id", cmd.ProductID).
		Msg("Product snapshot invalidated by remote edit")
	return nil
}
