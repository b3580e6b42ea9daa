package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// UpdateInventoryCommand represents the command to set a product's inventory count
type UpdateInventoryCommand struct {
	ProductID      int64
	InventoryCount int
}

// UpdateInventoryHandler handles the inventory edit command
type UpdateInventoryHandler struct {
	client    domain.CatalogClient
	loader    *dataset.Loader
	publisher domain.EventPublisher
}

// NewUpdateInventoryHandler creates a new inventory edit handler. publisher may be nil.
func NewUpdateInventoryHandler(client domain.CatalogClient, loader *dataset.Loader, publisher domain.EventPublisher) *UpdateInventoryHandler {
	return &UpdateInventoryHandler{client: client, loader: loader, publisher: publisher}
}

// Handle validates the edit, applies it upstream and refreshes the product
// snapshot. When the upstream rejects the edit the snapshot is left untouched;
// when only the refresh fails the snapshot is invalidated.
func (h *UpdateInventoryHandler) Handle(ctx context.Context, cmd UpdateInventoryCommand) (*domain.Product, error) {
	if cmd.ProductID <= 0 {
		return nil, domain.NewValidationError("id", "product id must be positive")
	}
	update := domain.InventoryUpdate{InventoryCount: cmd.InventoryCount}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	current, err := h.client.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", cmd.ProductID, err)
	}

	updated, err := h.client.UpdateInventory(ctx, cmd.ProductID, update)
	if err != nil {
		logger.Error(ctx).Err(err).
			Int64("product_id", cmd.ProductID).
			Int("inventory_count", cmd.InventoryCount).
			Msg("Inventory update rejected")
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}

	logger.Info(ctx).
		Int64("product_id", cmd.ProductID).
		Int("previous_count", current.InventoryCount).
		Int("inventory_count", updated.InventoryCount).
		Msg("Inventory updated")

	if _, err := h.loader.FetchProducts(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Snapshot refresh failed after edit, invalidating")
		if err := h.loader.InvalidateProducts(ctx); err != nil {
			logger.Error(ctx).Err(err).Msg("Failed to invalidate product snapshot")
		}
	}

	if h.publisher != nil {
		if err := h.publisher.PublishInventoryUpdated(ctx, *updated, current.InventoryCount); err != nil {
			logger.Warn(ctx).Err(err).Int64("product_id", updated.ID).Msg("Failed to publish inventory event")
		}
	}

	return updated, nil
}
