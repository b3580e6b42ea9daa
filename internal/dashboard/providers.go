package dashboard

import (
	"github.com/google/wire"

	"github.com/tair/inventory-dashboard/internal/config"
	"github.com/tair/inventory-dashboard/internal/dashboard/client"
	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	deliveryhttp "github.com/tair/inventory-dashboard/internal/dashboard/delivery/http"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/metrics"
	"github.com/tair/inventory-dashboard/internal/dashboard/sequence"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
	"github.com/tair/inventory-dashboard/internal/dashboard/usecase/command"
	"github.com/tair/inventory-dashboard/internal/dashboard/usecase/query"
)

// Service bundles what the entry point serves: the HTTP views and the
// handler for inventory events from other instances
type Service struct {
	Handler    *deliveryhttp.DashboardHandler
	Invalidate *command.InvalidateProductsHandler
	Loader     *dataset.Loader
}

// NewService creates a new service bundle
func NewService(handler *deliveryhttp.DashboardHandler, invalidate *command.InvalidateProductsHandler, loader *dataset.Loader) *Service {
	return &Service{Handler: handler, Invalidate: invalidate, Loader: loader}
}

// ProvidePageSizes provides the view page sizes
func ProvidePageSizes(cfg *config.Config) query.PageSizes {
	return query.PageSizes{
		Dashboard: cfg.PageSizes.Dashboard,
		Inventory: cfg.PageSizes.Inventory,
		Forecast:  cfg.PageSizes.Forecast,
	}
}

// ProvideFingerprinter provides the configured fingerprinter
func ProvideFingerprinter(cfg *config.Config) snapshot.Fingerprinter {
	return snapshot.NewFingerprinter(snapshot.FingerprintMode(cfg.Snapshot.FingerprintMode))
}

// ProvideCache provides the snapshot cache reporting to m
func ProvideCache(store snapshot.Store, m *metrics.Metrics) *snapshot.Cache {
	return snapshot.NewCache(store, m)
}

// ProvideInvalidateHandler provides the remote edit handler for this instance
func ProvideInvalidateHandler(loader *dataset.Loader, cfg *config.Config) *command.InvalidateProductsHandler {
	return command.NewInvalidateProductsHandler(loader, cfg.InstanceID)
}

// ProvideCatalogConfig maps the upstream settings onto the client config
func ProvideCatalogConfig(cfg *config.Config) client.Config {
	return client.Config{
		BaseURL:         cfg.Upstream.BaseURL,
		Timeout:         cfg.Upstream.Timeout,
		ForecastTimeout: cfg.Upstream.ForecastTimeout,
		MaxFailures:     cfg.Upstream.MaxFailures,
		OpenTimeout:     cfg.Upstream.OpenTimeout,
	}
}

// InfrastructureSet provides the data layer
var InfrastructureSet = wire.NewSet(
	ProvideFingerprinter,
	ProvideCache,
	sequence.New,
	dataset.NewLoader,
	wire.Bind(new(domain.CatalogClient), new(*client.CatalogClient)),
	wire.Bind(new(command.SupersededRecorder), new(*metrics.Metrics)),
)

// UseCaseSet provides the query and command handlers
var UseCaseSet = wire.NewSet(
	ProvidePageSizes,
	query.NewGetDashboardHandler,
	query.NewGetInventoryHandler,
	query.NewGetCategoryHandler,
	query.NewGetAlertsHandler,
	query.NewGetTrendsHandler,
	query.NewGetForecastHandler,
	query.NewGetForecastStatusHandler,
	command.NewRefreshDashboardHandler,
	command.NewUpdateInventoryHandler,
	command.NewGenerateForecastHandler,
	ProvideInvalidateHandler,
)
