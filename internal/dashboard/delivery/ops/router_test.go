package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-dashboard/internal/dashboard/health"
	"github.com/tair/inventory-dashboard/internal/dashboard/metrics"
)

func TestHealthReportsStatusCode(t *testing.T) {
	storeErr := errors.New("redis: connection refused")
	checker := health.NewChecker("dashboard", nil, health.Dependency{
		Name:     "snapshot_store",
		Critical: true,
		Check:    func(context.Context) error { return storeErr },
	})
	router := NewRouter(checker, prometheus.NewRegistry())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body health.ServiceHealth
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, health.StatusUnhealthy, body.Status)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpointExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.PageReset("dashboard")

	router := NewRouter(health.NewChecker("dashboard", nil), reg)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dashboard_page_resets_total"))
}
