//go:build wireinject
// +build wireinject

package dashboard

import (
	"github.com/google/wire"

	"github.com/tair/inventory-dashboard/internal/config"
	"github.com/tair/inventory-dashboard/internal/dashboard/client"
	deliveryhttp "github.com/tair/inventory-dashboard/internal/dashboard/delivery/http"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/metrics"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
)

// InitializeService wires the dashboard use cases and HTTP handler
func InitializeService(
	cfg *config.Config,
	catalog *client.CatalogClient,
	store snapshot.Store,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) (*Service, error) {
	wire.Build(
		InfrastructureSet,
		UseCaseSet,
		deliveryhttp.NewDashboardHandler,
		NewService,
	)
	return nil, nil
}
