package query

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/pagination"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// GetForecastQuery represents the query for the forecast table.
// A nil Page restores the persisted page of Client.
type GetForecastQuery struct {
	Client string
	Page   *int
}

// ForecastView is the forecast table view model
type ForecastView struct {
	Records       []domain.ForecastRecord       `json:"records"`
	Pagination    pagination.Descriptor         `json:"pagination"`
	ActionSummary map[domain.ForecastAction]int `json:"actionSummary"`
	LastGenerated *time.Time                    `json:"lastGenerated,omitempty"`
	Fingerprint   string                        `json:"fingerprint"`
}

// GetForecastHandler handles the forecast table query
type GetForecastHandler struct {
	loader   *dataset.Loader
	pageSize int
}

// NewGetForecastHandler creates a new forecast table handler
func NewGetForecastHandler(loader *dataset.Loader, sizes PageSizes) *GetForecastHandler {
	return &GetForecastHandler{loader: loader, pageSize: pagination.NormalizeSize(sizes.Forecast)}
}

// Handle pages the last generated forecast in memory
func (h *GetForecastHandler) Handle(ctx context.Context, q GetForecastQuery) (*ForecastView, error) {
	snap, ok, err := h.loader.Forecast(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		snap = snapshot.Snapshot[[]domain.ForecastRecord]{
			Data:        []domain.ForecastRecord{},
			Fingerprint: snapshot.EmptyFingerprint,
		}
	}
	return h.Render(ctx, snap, ok, q), nil
}

// Render builds the view for snap; generated is false when no forecast exists yet
func (h *GetForecastHandler) Render(ctx context.Context, snap snapshot.Snapshot[[]domain.ForecastRecord], generated bool, q GetForecastQuery) *ForecastView {
	cache := h.loader.Cache()

	var requested int
	if q.Page != nil {
		requested = *q.Page
	} else {
		requested = cache.RestorePage(ctx, snapshot.ViewForecast, q.Client, snap.Fingerprint)
	}

	pager := pagination.NewLocal(snap.Data, h.pageSize)
	page := pager.SetPage(requested)

	if err := cache.SavePage(ctx, snapshot.ViewForecast, q.Client, page, snap.Fingerprint); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to persist forecast page")
	}

	view := &ForecastView{
		Records:       pager.Visible(),
		Pagination:    pager.Descriptor(),
		ActionSummary: domain.SummarizeActions(snap.Data),
		Fingerprint:   snap.Fingerprint,
	}
	if generated {
		at := snap.FetchedAt
		view.LastGenerated = &at
	}
	return view
}

// GetForecastStatusHandler handles the forecast status query
type GetForecastStatusHandler struct {
	client domain.CatalogClient
}

// NewGetForecastStatusHandler creates a new forecast status handler
func NewGetForecastStatusHandler(client domain.CatalogClient) *GetForecastStatusHandler {
	return &GetForecastStatusHandler{client: client}
}

// Handle fetches the upstream forecast status
func (h *GetForecastStatusHandler) Handle(ctx context.Context) (domain.ForecastStatus, error) {
	status, err := h.client.ForecastStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast status: %w", err)
	}
	if status == nil {
		status = domain.ForecastStatus{}
	}
	return status, nil
}
