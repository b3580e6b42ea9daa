package command

import (
	"context"

	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/sequence"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// SupersededRecorder counts refreshes discarded in favour of a newer one
type SupersededRecorder interface {
	Superseded(view string)
}

// RefreshDashboardCommand represents a forced refresh of the dashboard data
type RefreshDashboardCommand struct {
	Client string
}

// RefreshDashboardHandler handles the dashboard refresh command
type RefreshDashboardHandler struct {
	loader   *dataset.Loader
	seq      *sequence.Sequencer
	recorder SupersededRecorder
}

// NewRefreshDashboardHandler creates a new refresh handler. recorder may be nil.
func NewRefreshDashboardHandler(loader *dataset.Loader, seq *sequence.Sequencer, recorder SupersededRecorder) *RefreshDashboardHandler {
	return &RefreshDashboardHandler{loader: loader, seq: seq, recorder: recorder}
}

// Handle fetches fresh products and stats and overwrites the snapshot. A newer
// refresh by the same client fails this one with ErrSuperseded. A newer write by
// anyone else, such as an inventory edit, keeps its data and that data is returned.
func (h *RefreshDashboardHandler) Handle(ctx context.Context, cmd RefreshDashboardCommand) (snapshot.Snapshot[dataset.Products], error) {
	key := sequence.Key(string(snapshot.ViewDashboard), cmd.Client)
	token := h.seq.Issue(key)
	write := h.loader.BeginProducts()

	data, err := h.loader.Fetch(ctx)

	if !h.seq.IsLatest(key, token) {
		logger.Info(ctx).
			Str("client", cmd.Client).
			Uint64("token", token).
			Msg("Discarding superseded dashboard refresh")
		if h.recorder != nil {
			h.recorder.Superseded(string(snapshot.ViewDashboard))
		}
		return snapshot.Snapshot[dataset.Products]{}, domain.ErrSuperseded
	}
	if err != nil {
		return snapshot.Snapshot[dataset.Products]{}, err
	}

	snap, applied := h.loader.CommitProducts(ctx, write, data)
	if !applied {
		logger.Info(ctx).
			Str("client", cmd.Client).
			Str("fingerprint", snap.Fingerprint).
			Msg("Newer product snapshot kept over dashboard refresh")
	}
	return snap, nil
}
