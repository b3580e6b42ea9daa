// Package dataset loads the product and forecast datasets shared by the views,
// preferring the persisted snapshot and falling back to the upstream catalog.
package dataset

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/sequence"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// Source tells where a view's data came from
type Source string

const (
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
)

// The product and forecast snapshots are shared by every client, so writes to
// each are ordered by a single key rather than per view and client.
var (
	productsKey = sequence.Key("snapshot", snapshot.SnapshotProducts)
	forecastKey = sequence.Key("snapshot", snapshot.SnapshotForecast)
)

// Products is the product list together with the aggregate stats
type Products struct {
	Products []domain.Product   `json:"products"`
	Stats    domain.ProductStats `json:"stats"`
}

// Loader reads and refreshes dataset snapshots
type Loader struct {
	client domain.CatalogClient
	cache  *snapshot.Cache
	fp     snapshot.Fingerprinter
	writes *sequence.Sequencer
}

// NewLoader creates a new dataset loader
func NewLoader(client domain.CatalogClient, cache *snapshot.Cache, fp snapshot.Fingerprinter) *Loader {
	return &Loader{client: client, cache: cache, fp: fp, writes: sequence.New()}
}

// Cache returns the snapshot cache the loader writes to
func (l *Loader) Cache() *snapshot.Cache { return l.cache }

// Products returns the product snapshot, blocking on a fetch only when none is stored
func (l *Loader) Products(ctx context.Context) (snapshot.Snapshot[Products], Source, error) {
	snap, ok, err := snapshot.LoadSnapshot[Products](ctx, l.cache, snapshot.SnapshotProducts)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Product snapshot unavailable, fetching")
	}
	if ok {
		return snap, SourceCache, nil
	}

	snap, err = l.FetchProducts(ctx)
	if err != nil {
		return snap, SourceNetwork, err
	}
	return snap, SourceNetwork, nil
}

// FetchProducts fetches products and stats and overwrites the snapshot unless
// a newer write started meanwhile
func (l *Loader) FetchProducts(ctx context.Context) (snapshot.Snapshot[Products], error) {
	token := l.BeginProducts()
	data, err := l.Fetch(ctx)
	if err != nil {
		return snapshot.Snapshot[Products]{}, err
	}
	snap, _ := l.CommitProducts(ctx, token, data)
	return snap, nil
}

// BeginProducts reserves a write of the product snapshot. Call it before
// fetching; any later Begin or invalidation supersedes the reservation.
func (l *Loader) BeginProducts() uint64 {
	return l.writes.Issue(productsKey)
}

// Fetch fetches products and stats concurrently without touching the snapshot
func (l *Loader) Fetch(ctx context.Context) (Products, error) {
	var data Products

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := l.client.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch products: %w", err)
		}
		data.Products = products
		return nil
	})
	g.Go(func() error {
		stats, err := l.client.GetStats(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch stats: %w", err)
		}
		data.Stats = *stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return Products{}, err
	}
	if data.Products == nil {
		data.Products = []domain.Product{}
	}
	return data, nil
}

// CommitProducts stores data fetched under token as the product snapshot. When
// a newer write or an invalidation was issued after token the store is left
// alone and the stored snapshot is returned instead, or data itself when none
// is stored. applied reports whether data was written. A failed write is
// logged; the returned snapshot is usable either way.
func (l *Loader) CommitProducts(ctx context.Context, token uint64, data Products) (snap snapshot.Snapshot[Products], applied bool) {
	fingerprint := l.fp.Products(data.Products)

	var err error
	applied = l.writes.ApplyIfLatest(productsKey, token, func() {
		snap, err = snapshot.SaveSnapshot(ctx, l.cache, snapshot.SnapshotProducts, data, fingerprint)
	})
	if applied {
		if err != nil {
			logger.Error(ctx).Err(err).Msg("Failed to save product snapshot")
		}
		return snap, true
	}

	logger.Debug(ctx).Uint64("token", token).Msg("Product snapshot superseded, keeping newer write")
	if stored, ok, err := snapshot.LoadSnapshot[Products](ctx, l.cache, snapshot.SnapshotProducts); err == nil && ok {
		return stored, false
	}
	return snapshot.Snapshot[Products]{Data: data, Fingerprint: fingerprint, FetchedAt: time.Now().UTC()}, false
}

// InvalidateProducts drops the product snapshot so the next view fetches fresh
// data. Fetches already in flight will not store their result.
func (l *Loader) InvalidateProducts(ctx context.Context) error {
	var err error
	l.writes.Supersede(productsKey, func() {
		err = l.cache.Invalidate(ctx, snapshot.SnapshotProducts)
	})
	return err
}

// Forecast returns the last generated forecast; ok is false when none was generated
func (l *Loader) Forecast(ctx context.Context) (snapshot.Snapshot[[]domain.ForecastRecord], bool, error) {
	snap, ok, err := snapshot.LoadSnapshot[[]domain.ForecastRecord](ctx, l.cache, snapshot.SnapshotForecast)
	if err != nil {
		return snap, false, fmt.Errorf("failed to load forecast: %w", err)
	}
	return snap, ok, nil
}

// RunForecast runs the upstream forecast without touching the snapshot
func (l *Loader) RunForecast(ctx context.Context) ([]domain.ForecastRecord, error) {
	records, err := l.client.GenerateForecast(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate forecast: %w", err)
	}
	if records == nil {
		records = []domain.ForecastRecord{}
	}
	return records, nil
}

// BeginForecast reserves a write of the forecast snapshot
func (l *Loader) BeginForecast() uint64 {
	return l.writes.Issue(forecastKey)
}

// CommitForecast stores records generated under token, stamped with the
// generation time, unless a newer forecast write was issued after token. A
// superseded commit returns the stored forecast, or records when none is stored.
func (l *Loader) CommitForecast(ctx context.Context, token uint64, records []domain.ForecastRecord) (snap snapshot.Snapshot[[]domain.ForecastRecord], applied bool) {
	fingerprint := l.fp.Forecast(records)

	var err error
	applied = l.writes.ApplyIfLatest(forecastKey, token, func() {
		snap, err = snapshot.SaveSnapshot(ctx, l.cache, snapshot.SnapshotForecast, records, fingerprint)
	})
	if applied {
		if err != nil {
			logger.Error(ctx).Err(err).Msg("Failed to save forecast snapshot")
		}
		return snap, true
	}

	if stored, ok, err := l.Forecast(ctx); err == nil && ok {
		return stored, false
	}
	return snapshot.Snapshot[[]domain.ForecastRecord]{Data: records, Fingerprint: fingerprint, FetchedAt: time.Now().UTC()}, false
}

// SaveForecast stores records as the forecast snapshot, superseding any
// forecast still being generated
func (l *Loader) SaveForecast(ctx context.Context, records []domain.ForecastRecord) snapshot.Snapshot[[]domain.ForecastRecord] {
	snap, _ := l.CommitForecast(ctx, l.BeginForecast(), records)
	return snap
}
