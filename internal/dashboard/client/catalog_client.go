package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// Config holds the upstream connection settings
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	ForecastTimeout time.Duration
	MaxFailures     int
	OpenTimeout     time.Duration
}

// CatalogClient talks to the upstream inventory REST API
type CatalogClient struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	forecastTimeout time.Duration
	breaker         *Breaker
}

// NewCatalogClient creates a new upstream client
func NewCatalogClient(cfg Config) *CatalogClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.ForecastTimeout <= 0 {
		cfg.ForecastTimeout = 60 * time.Second
	}

	logger.Logger.Info().
		Str("base_url", cfg.BaseURL).
		Dur("timeout", cfg.Timeout).
		Msg("Catalog client configured")

	return &CatalogClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout:         cfg.Timeout,
		forecastTimeout: cfg.ForecastTimeout,
		breaker:         NewBreaker("catalog", cfg.MaxFailures, cfg.OpenTimeout),
	}
}

var _ domain.CatalogClient = (*CatalogClient)(nil)

// Breaker exposes the circuit breaker for health reporting
func (c *CatalogClient) Breaker() *Breaker { return c.breaker }

// ListProducts fetches every product
func (c *CatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out, c.timeout); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct fetches one product
func (c *CatalogClient) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, &out, c.timeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByCategory fetches the products of a category
func (c *CatalogClient) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	var out []domain.Product
	path := "/products/category/" + strconv.FormatInt(categoryID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, c.timeout); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLowStock fetches products at or below their minimum stock level
func (c *CatalogClient) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/low-stock", nil, &out, c.timeout); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOverstock fetches products at or above their maximum stock level
func (c *CatalogClient) ListOverstock(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/overstock", nil, &out, c.timeout); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStats fetches the aggregate product counts
func (c *CatalogClient) GetStats(ctx context.Context) (*domain.ProductStats, error) {
	var out domain.ProductStats
	if err := c.do(ctx, http.MethodGet, "/products/stats", nil, &out, c.timeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPage fetches one server-side page
func (c *CatalogClient) ListPage(ctx context.Context, page, size int) (*domain.ProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var out domain.ProductPage
	if err := c.do(ctx, http.MethodGet, "/products/page?"+q.Encode(), nil, &out, c.timeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInventory sets the inventory count of a product
func (c *CatalogClient) UpdateInventory(ctx context.Context, id int64, update domain.InventoryUpdate) (*domain.Product, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	var out domain.Product
	if err := c.do(ctx, http.MethodPatch, "/products/"+strconv.FormatInt(id, 10), update, &out, c.timeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateForecast runs the upstream demand forecast
func (c *CatalogClient) GenerateForecast(ctx context.Context) ([]domain.ForecastRecord, error) {
	var out []domain.ForecastRecord
	if err := c.do(ctx, http.MethodPost, "/forecast", nil, &out, c.forecastTimeout); err != nil {
		return nil, err
	}
	return out, nil
}

// ForecastStatus fetches the forecast service status document
func (c *CatalogClient) ForecastStatus(ctx context.Context) (domain.ForecastStatus, error) {
	var out domain.ForecastStatus
	if err := c.do(ctx, http.MethodGet, "/forecast/status", nil, &out, c.timeout); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping probes the upstream stats endpoint. It bypasses the breaker so health
// probes neither trip nor wait on it.
func (c *CatalogClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.roundTrip(ctx, http.MethodGet, "/products/stats", nil, nil)
}

func (c *CatalogClient) do(ctx context.Context, method, path string, body, out interface{}, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.breaker.Call(func() error {
		return c.roundTrip(ctx, method, path, body, out)
	})
}

func (c *CatalogClient) roundTrip(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error(ctx).Err(err).
			Str("method", method).
			Str("path", path).
			Msg("Upstream request failed")
		return fmt.Errorf("%s %s: %v: %w", method, path, err, domain.ErrTransport)
	}
	defer resp.Body.Close()

	logger.Debug(ctx).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Upstream request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &domain.StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, domain.ErrDecode)
	}
	return nil
}
