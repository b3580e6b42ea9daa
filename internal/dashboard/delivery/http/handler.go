package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/usecase/command"
	"github.com/tair/inventory-dashboard/internal/dashboard/usecase/query"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// ClientHeader identifies the browser session whose page state is restored
const ClientHeader = "X-Client-Id"

// Response is the JSON envelope of every API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DashboardHandler serves the dashboard views
type DashboardHandler struct {
	dashboard        *query.GetDashboardHandler
	inventory        *query.GetInventoryHandler
	category         *query.GetCategoryHandler
	alerts           *query.GetAlertsHandler
	trends           *query.GetTrendsHandler
	forecast         *query.GetForecastHandler
	forecastStatus   *query.GetForecastStatusHandler
	refresh          *command.RefreshDashboardHandler
	updateInventory  *command.UpdateInventoryHandler
	generateForecast *command.GenerateForecastHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	dashboard *query.GetDashboardHandler,
	inventory *query.GetInventoryHandler,
	category *query.GetCategoryHandler,
	alerts *query.GetAlertsHandler,
	trends *query.GetTrendsHandler,
	forecast *query.GetForecastHandler,
	forecastStatus *query.GetForecastStatusHandler,
	refresh *command.RefreshDashboardHandler,
	updateInventory *command.UpdateInventoryHandler,
	generateForecast *command.GenerateForecastHandler,
) *DashboardHandler {
	return &DashboardHandler{
		dashboard:        dashboard,
		inventory:        inventory,
		category:         category,
		alerts:           alerts,
		trends:           trends,
		forecast:         forecast,
		forecastStatus:   forecastStatus,
		refresh:          refresh,
		updateInventory:  updateInventory,
		generateForecast: generateForecast,
	}
}

// RegisterRoutes mounts the view routes under /api/views
func (h *DashboardHandler) RegisterRoutes(app fiber.Router) {
	views := app.Group("/api/views")

	views.Get("/dashboard", h.GetDashboard)
	views.Post("/dashboard/refresh", h.RefreshDashboard)
	views.Get("/inventory", h.GetInventory)
	views.Get("/categories/:id", h.GetCategory)
	views.Get("/alerts", h.GetAlerts)
	views.Get("/trends", h.GetTrends)
	views.Patch("/products/:id/inventory", h.UpdateInventory)
	views.Post("/forecast", h.GenerateForecast)
	views.Get("/forecast", h.GetForecast)
	views.Get("/forecast/status", h.GetForecastStatus)
}

// GetDashboard godoc
// @Summary Dashboard view
// @Description Stats tiles, top products and one page of the product table. Served from the snapshot when one exists.
// @Tags Dashboard
// @Produce json
// @Param page query int false "Zero-based page; restored from the saved page state when absent"
// @Param X-Client-Id header string false "Client identity for page state"
// @Success 200 {object} object{success=bool,data=query.DashboardView}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	page, err := optionalPage(c)
	if err != nil {
		return respondError(c, err)
	}

	view, err := h.dashboard.Handle(c.UserContext(), query.GetDashboardQuery{Client: clientID(c), Page: page})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(Response{Success: true, Data: view})
}

// RefreshDashboard godoc
// @Summary Refresh the dashboard
// @Description Fetch products and stats, overwrite the snapshot and re-validate the saved page
// @Tags Dashboard
// @Produce json
// @Param X-Client-Id header string false "Client identity for page state"
// @Success 200 {object} object{success=bool,message=string,data=query.DashboardView}
// @Failure 409 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/dashboard/refresh [post]
func (h *DashboardHandler) RefreshDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	client := clientID(c)

	snap, err := h.refresh.Handle(ctx, command.RefreshDashboardCommand{Client: client})
	if err != nil {
		return respondError(c, err)
	}

	view := h.dashboard.Render(ctx, snap, dataset.SourceNetwork, query.GetDashboardQuery{Client: client})
	return c.JSON(Response{Success: true, Message: "Dashboard refreshed", Data: view})
}

// GetInventory godoc
// @Summary Inventory table
// @Description One server page of products, filtered on the loaded page
// @Tags Inventory
// @Produce json
// @Param page query int false "Zero-based page"
// @Param search query string false "Case-insensitive name or SKU search"
// @Param status query string false "Inventory status filter"
// @Success 200 {object} object{success=bool,data=query.InventoryView}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/inventory [get]
func (h *DashboardHandler) GetInventory(c *fiber.Ctx) error {
	page, err := optionalPage(c)
	if err != nil {
		return respondError(c, err)
	}
	q := query.GetInventoryQuery{Search: c.Query("search"), Status: c.Query("status")}
	if page != nil {
		q.Page = *page
	}

	view, err := h.inventory.Handle(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(Response{Success: true, Data: view})
}

// GetCategory godoc
// @Summary Category products
// @Tags Inventory
// @Produce json
// @Param id path int true "Category ID"
// @Param search query string false "Case-insensitive name or SKU search"
// @Param status query string false "Inventory status filter"
// @Success 200 {object} object{success=bool,data=query.CategoryView}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/categories/{id} [get]
func (h *DashboardHandler) GetCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, domain.NewValidationError("id", "invalid category id"))
	}

	view, err := h.category.Handle(c.UserContext(), query.GetCategoryQuery{
		CategoryID: id,
		Search:     c.Query("search"),
		Status:     c.Query("status"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(Response{Success: true, Data: view})
}

// GetAlerts godoc
// @Summary Stock alerts
// @Tags Inventory
// @Produce json
// @Success 200 {object} object{success=bool,data=query.AlertsView}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/alerts [get]
func (h *DashboardHandler) GetAlerts(c *fiber.Ctx) error {
	view, err := h.alerts.Handle(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(Response{Success: true, Data: view})
}

// GetTrends godoc
// @Summary Category trends
// @Description Units and revenue per category from the product snapshot
// @Tags Dashboard
// @Produce json
// @Success 200 {object} object{success=bool,data=query.TrendsView}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/trends [get]
func (h *DashboardHandler) GetTrends(c *fiber.Ctx) error {
	view, err := h.trends.Handle(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(Response{Success: true, Data: view})
}

// UpdateInventory godoc
// @Summary Edit inventory count
// @Description Update a product's inventory upstream and refresh the product snapshot
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{inventoryCount=int} true "New inventory count"
// @Success 200 {object} object{success=bool,message=string,data=domain.Product}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/products/{id}/inventory [patch]
func (h *DashboardHandler) UpdateInventory(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, domain.NewValidationError("id", "invalid product id"))
	}

	var req struct {
		InventoryCount *int `json:"inventoryCount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.NewValidationError("body", "invalid request body"))
	}
	if req.InventoryCount == nil {
		return respondError(c, domain.NewValidationError("inventoryCount", "is required"))
	}

	product, err := h.updateInventory.Handle(c.UserContext(), command.UpdateInventoryCommand{
		ProductID:      id,
		InventoryCount: *req.InventoryCount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(Response{Success: true, Message: "Inventory updated successfully", Data: product})
}

// GenerateForecast godoc
// @Summary Generate forecast
// @Description Run the upstream forecast and store it as the forecast snapshot
// @Tags Forecast
// @Produce json
// @Param X-Client-Id header string false "Client identity for page state"
// @Success 200 {object} object{success=bool,message=string,data=query.ForecastView}
// @Failure 409 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/forecast [post]
func (h *DashboardHandler) GenerateForecast(c *fiber.Ctx) error {
	ctx := c.UserContext()
	client := clientID(c)

	snap, err := h.generateForecast.Handle(ctx, command.GenerateForecastCommand{Client: client})
	if err != nil {
		return respondError(c, err)
	}

	view := h.forecast.Render(ctx, snap, true, query.GetForecastQuery{Client: client})
	return c.JSON(Response{Success: true, Message: "Forecast generated", Data: view})
}

// GetForecast godoc
// @Summary Forecast table
// @Tags Forecast
// @Produce json
// @Param page query int false "Zero-based page; restored from the saved page state when absent"
// @Param X-Client-Id header string false "Client identity for page state"
// @Success 200 {object} object{success=bool,data=query.ForecastView}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/views/forecast [get]
func (h *DashboardHandler) GetForecast(c *fiber.Ctx) error {
	page, err := optionalPage(c)
	if err != nil {
		return respondError(c, err)
	}

	view, err := h.forecast.Handle(c.UserContext(), query.GetForecastQuery{Client: clientID(c), Page: page})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(Response{Success: true, Data: view})
}

// GetForecastStatus godoc
// @Summary Forecast engine status
// @Tags Forecast
// @Produce json
// @Success 200 {object} object{success=bool,data=domain.ForecastStatus}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/views/forecast/status [get]
func (h *DashboardHandler) GetForecastStatus(c *fiber.Ctx) error {
	status, err := h.forecastStatus.Handle(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(Response{Success: true, Data: status})
}

func clientID(c *fiber.Ctx) string {
	if id := c.Get(ClientHeader); id != "" {
		return id
	}
	return "default"
}

func optionalPage(c *fiber.Ctx) (*int, error) {
	raw := c.Query("page")
	if raw == "" {
		return nil, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError("page", "must be an integer")
	}
	return &page, nil
}

// StatusFor maps a use case error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrSuperseded):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrDecode):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)

	event := logger.Warn(c.UserContext())
	if status >= fiber.StatusInternalServerError {
		event = logger.Error(c.UserContext())
	}
	event.Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Msg("Request failed")

	return c.Status(status).JSON(Response{Success: false, Error: err.Error()})
}
