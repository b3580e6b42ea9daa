package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-dashboard/internal/config"
	"github.com/tair/inventory-dashboard/internal/dashboard/client"
	deliveryhttp "github.com/tair/inventory-dashboard/internal/dashboard/delivery/http"
	"github.com/tair/inventory-dashboard/internal/dashboard/metrics"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
	"github.com/tair/inventory-dashboard/internal/dashboard/usecase/command"
)

func upstream(t *testing.T, listCalls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			atomic.AddInt32(listCalls, 1)
			io.WriteString(w, `[{"id":1,"sku":"A-1","name":"Anvil","price":"12.50","inventoryCount":4,
				"minStockLevel":5,"maxStockLevel":50,"inventoryStatus":"Low Stock","category":{"id":1,"name":"Tools"}}]`)
		case "/api/products/stats":
			io.WriteString(w, `{"totalProducts":1,"totalInventory":4,"lowStockCount":1,"overstockCount":0}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInitializeServiceServesDashboard(t *testing.T) {
	var listCalls int32
	srv := upstream(t, &listCalls)

	cfg := config.Default()
	cfg.Upstream.BaseURL = srv.URL + "/api"
	cfg.InstanceID = "dash-a"

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := snapshot.NewMemoryStore()

	svc, err := InitializeService(&cfg, client.NewCatalogClient(ProvideCatalogConfig(&cfg)), store, nil, m)
	require.NoError(t, err)

	app := deliveryhttp.NewApp(deliveryhttp.AppConfig{}, svc.Handler, nil, m)
	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/views/dashboard", nil), -1)
		require.NoError(t, err)

		var body struct {
			Success bool `json:"success"`
			Data    struct {
				Source string `json:"source"`
				Stats  struct {
					TotalProducts int64 `json:"totalProducts"`
				} `json:"stats"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.True(t, body.Success)
		assert.Equal(t, int64(1), body.Data.Stats.TotalProducts)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&listCalls), "second render comes from the snapshot")

	ctx := context.Background()
	require.NoError(t, svc.Invalidate.Handle(ctx, command.InvalidateProductsCommand{Source: "dash-a", ProductID: 1}))
	_, ok, err := snapshot.LoadSnapshot[json.RawMessage](ctx, svc.Loader.Cache(), snapshot.SnapshotProducts)
	require.NoError(t, err)
	assert.True(t, ok, "own events keep the snapshot")

	require.NoError(t, svc.Invalidate.Handle(ctx, command.InvalidateProductsCommand{Source: "dash-b", ProductID: 1}))
	_, ok, err = snapshot.LoadSnapshot[json.RawMessage](ctx, svc.Loader.Cache(), snapshot.SnapshotProducts)
	require.NoError(t, err)
	assert.False(t, ok, "remote events drop the snapshot")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/views/dashboard", "2xx")))
}
