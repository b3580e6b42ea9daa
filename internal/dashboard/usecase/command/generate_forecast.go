package command

import (
	"context"

	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/sequence"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// GenerateForecastCommand represents a forecast run requested by Client
type GenerateForecastCommand struct {
	Client string
}

// GenerateForecastHandler handles the forecast generation command
type GenerateForecastHandler struct {
	loader   *dataset.Loader
	seq      *sequence.Sequencer
	recorder SupersededRecorder
}

// NewGenerateForecastHandler creates a new forecast handler. recorder may be nil.
func NewGenerateForecastHandler(loader *dataset.Loader, seq *sequence.Sequencer, recorder SupersededRecorder) *GenerateForecastHandler {
	return &GenerateForecastHandler{loader: loader, seq: seq, recorder: recorder}
}

// Handle runs the upstream forecast and stores it with its generation time
func (h *GenerateForecastHandler) Handle(ctx context.Context, cmd GenerateForecastCommand) (snapshot.Snapshot[[]domain.ForecastRecord], error) {
	key := sequence.Key(string(snapshot.ViewForecast), cmd.Client)
	token := h.seq.Issue(key)
	write := h.loader.BeginForecast()

	records, err := h.loader.RunForecast(ctx)

	if !h.seq.IsLatest(key, token) {
		if h.recorder != nil {
			h.recorder.Superseded(string(snapshot.ViewForecast))
		}
		return snapshot.Snapshot[[]domain.ForecastRecord]{}, domain.ErrSuperseded
	}
	if err != nil {
		return snapshot.Snapshot[[]domain.ForecastRecord]{}, err
	}

	snap, applied := h.loader.CommitForecast(ctx, write, records)
	logger.Info(ctx).
		Int("records", len(snap.Data)).
		Str("fingerprint", snap.Fingerprint).
		Bool("stored", applied).
		Msg("Forecast generated")
	return snap, nil
}
