package domain

import "context"

// CatalogClient defines the contract of the upstream inventory REST API
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]Product, error)
	ListLowStock(ctx context.Context) ([]Product, error)
	ListOverstock(ctx context.Context) ([]Product, error)
	GetStats(ctx context.Context) (*ProductStats, error)
	ListPage(ctx context.Context, page, size int) (*ProductPage, error)
	UpdateInventory(ctx context.Context, id int64, update InventoryUpdate) (*Product, error)
	GenerateForecast(ctx context.Context) ([]ForecastRecord, error)
	ForecastStatus(ctx context.Context) (ForecastStatus, error)
}

// EventPublisher announces inventory changes to other dashboard instances
type EventPublisher interface {
	PublishInventoryUpdated(ctx context.Context, product Product, previousCount int) error
}
