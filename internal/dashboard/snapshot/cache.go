package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tair/inventory-dashboard/pkg/logger"
)

// View names a view whose page position is persisted
type View string

const (
	ViewDashboard View = "dashboard"
	ViewForecast  View = "forecast"
)

// Snapshot names
const (
	SnapshotProducts = "products"
	SnapshotForecast = "forecast"
)

// DefaultClient is used when the caller does not identify itself
const DefaultClient = "default"

// PageState is a persisted page index paired with the fingerprint of the
// dataset it was computed against
type PageState struct {
	Page        int       `json:"page"`
	Fingerprint string    `json:"fingerprint"`
	SavedAt     time.Time `json:"saved_at"`
}

// Snapshot is a persisted copy of fetched data
type Snapshot[T any] struct {
	Data        T         `json:"data"`
	Fingerprint string    `json:"fingerprint"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Observer receives cache events, typically for metrics
type Observer interface {
	SnapshotHit(name string)
	SnapshotMiss(name string)
	PageReset(view string)
}

type nopObserver struct{}

func (nopObserver) SnapshotHit(string)  {}
func (nopObserver) SnapshotMiss(string) {}
func (nopObserver) PageReset(string)    {}

// Cache persists view positions and data snapshots in a Store
type Cache struct {
	store    Store
	observer Observer
	now      func() time.Time
}

// NewCache creates a cache over store. observer may be nil.
func NewCache(store Store, observer Observer) *Cache {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Cache{store: store, observer: observer, now: time.Now}
}

// Store returns the underlying store
func (c *Cache) Store() Store { return c.store }

func pageKey(view View, client string) string {
	if client == "" {
		client = DefaultClient
	}
	return fmt.Sprintf("dashboard:page:%s:%s", view, client)
}

func snapshotKey(name string) string {
	return "dashboard:snapshot:" + name
}

// LoadPage returns the persisted page state; ok is false when nothing was saved
func (c *Cache) LoadPage(ctx context.Context, view View, client string) (PageState, bool, error) {
	raw, err := c.store.Get(ctx, pageKey(view, client))
	if errors.Is(err, ErrNotFound) {
		return PageState{}, false, nil
	}
	if err != nil {
		return PageState{}, false, fmt.Errorf("load page state: %w", err)
	}

	var st PageState
	if err := json.Unmarshal(raw, &st); err != nil {
		return PageState{}, false, fmt.Errorf("decode page state: %w", err)
	}
	return st, true, nil
}

// SavePage persists page and fingerprint as a single value
func (c *Cache) SavePage(ctx context.Context, view View, client string, page int, fingerprint string) error {
	raw, err := json.Marshal(PageState{Page: page, Fingerprint: fingerprint, SavedAt: c.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode page state: %w", err)
	}
	if err := c.store.Set(ctx, pageKey(view, client), raw); err != nil {
		return fmt.Errorf("save page state: %w", err)
	}
	return nil
}

// RestorePage returns the persisted page when its fingerprint equals current,
// and 0 when nothing was saved, the fingerprints differ or the state is unreadable.
func (c *Cache) RestorePage(ctx context.Context, view View, client, current string) int {
	st, ok, err := c.LoadPage(ctx, view, client)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("view", string(view)).Msg("Discarding unreadable page state")
		c.observer.PageReset(string(view))
		return 0
	}
	if !ok {
		return 0
	}
	if st.Fingerprint != current {
		logger.Debug(ctx).
			Str("view", string(view)).
			Str("stored_fingerprint", st.Fingerprint).
			Str("current_fingerprint", current).
			Int("stored_page", st.Page).
			Msg("Dataset changed, resetting page")
		c.observer.PageReset(string(view))
		return 0
	}
	if st.Page < 0 {
		return 0
	}
	return st.Page
}

// InvalidatePage forgets the persisted page of a view
func (c *Cache) InvalidatePage(ctx context.Context, view View, client string) error {
	return c.store.Delete(ctx, pageKey(view, client))
}

// SaveSnapshot persists data under name
func SaveSnapshot[T any](ctx context.Context, c *Cache, name string, data T, fingerprint string) (Snapshot[T], error) {
	snap := Snapshot[T]{Data: data, Fingerprint: fingerprint, FetchedAt: c.now().UTC()}
	raw, err := json.Marshal(snap)
	if err != nil {
		return snap, fmt.Errorf("encode snapshot %s: %w", name, err)
	}
	if err := c.store.Set(ctx, snapshotKey(name), raw); err != nil {
		return snap, fmt.Errorf("save snapshot %s: %w", name, err)
	}
	return snap, nil
}

// LoadSnapshot reads the snapshot stored under name. An undecodable snapshot is
// reported as absent so callers fall back to a fresh fetch.
func LoadSnapshot[T any](ctx context.Context, c *Cache, name string) (Snapshot[T], bool, error) {
	var snap Snapshot[T]

	raw, err := c.store.Get(ctx, snapshotKey(name))
	if errors.Is(err, ErrNotFound) {
		c.observer.SnapshotMiss(name)
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("load snapshot %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.Warn(ctx).Err(err).Str("snapshot", name).Msg("Discarding undecodable snapshot")
		c.observer.SnapshotMiss(name)
		return Snapshot[T]{}, false, nil
	}

	c.observer.SnapshotHit(name)
	return snap, true, nil
}

// Invalidate deletes the named snapshots
func (c *Cache) Invalidate(ctx context.Context, names ...string) error {
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = snapshotKey(n)
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate snapshots: %w", err)
	}
	return nil
}
