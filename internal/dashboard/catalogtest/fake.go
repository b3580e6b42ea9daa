// Package catalogtest provides an in-memory catalog for tests.
package catalogtest

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/pagination"
)

// Fake implements domain.CatalogClient over a fixed product list
type Fake struct {
	mu       sync.Mutex
	products []domain.Product
	forecast []domain.ForecastRecord
	status   domain.ForecastStatus
	calls    map[string]int

	// Err, when set, is returned by every call
	Err error
	// UpdateErr, when set, is returned by UpdateInventory only
	UpdateErr error
	// Hook runs at the start of every call with the call name
	Hook func(call string)
}

// New creates a fake serving products
func New(products ...domain.Product) *Fake {
	return &Fake{products: products, calls: make(map[string]int)}
}

// Product builds a product with the fields views care about
func Product(id int64, sku, name, category string, count int, status domain.InventoryStatus) domain.Product {
	p := domain.Product{
		ID:              id,
		SKU:             sku,
		Name:            name,
		Price:           decimal.NewFromInt(10),
		InventoryCount:  count,
		MinStockLevel:   5,
		MaxStockLevel:   100,
		InventoryStatus: status,
	}
	if category != "" {
		p.Category = &domain.Category{ID: CategoryID(category), Name: category}
	}
	return p
}

// CategoryID derives the category id Product assigns to name
func CategoryID(name string) int64 {
	var id int64
	for _, c := range name {
		id = id*31 + int64(c)
	}
	if id < 0 {
		id = -id
	}
	return id%100000 + 1
}

// Numbered builds n in-stock products with SKUs P-001, P-002 and so on
func Numbered(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = Product(int64(i+1), sku(i+1), "Product "+sku(i+1), "General", 20, domain.StatusInStock)
	}
	return out
}

func sku(i int) string {
	digits := []byte{'0' + byte(i/100%10), '0' + byte(i/10%10), '0' + byte(i%10)}
	return "P-" + string(digits)
}

// SetProducts replaces the served products
func (f *Fake) SetProducts(products []domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = products
}

// SetErr sets the error returned by every following call
func (f *Fake) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

// SetForecast sets the records returned by GenerateForecast
func (f *Fake) SetForecast(records []domain.ForecastRecord, status domain.ForecastStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecast = records
	f.status = status
}

// Calls returns how often call was made
func (f *Fake) Calls(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

func (f *Fake) begin(call string) error {
	if f.Hook != nil {
		f.Hook(call)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[call]++
	return f.Err
}

func (f *Fake) snapshot() []domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	return out
}

func (f *Fake) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := f.begin("ListProducts"); err != nil {
		return nil, err
	}
	return f.snapshot(), nil
}

func (f *Fake) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := f.begin("GetProduct"); err != nil {
		return nil, err
	}
	for _, p := range f.snapshot() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &domain.StatusError{Method: "GET", Path: "/products", StatusCode: 404}
}

func (f *Fake) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	if err := f.begin("ListByCategory"); err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range f.snapshot() {
		if p.Category != nil && p.Category.ID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	if err := f.begin("ListLowStock"); err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range f.snapshot() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) ListOverstock(ctx context.Context) ([]domain.Product, error) {
	if err := f.begin("ListOverstock"); err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range f.snapshot() {
		if p.IsOverstock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) GetStats(ctx context.Context) (*domain.ProductStats, error) {
	if err := f.begin("GetStats"); err != nil {
		return nil, err
	}
	var stats domain.ProductStats
	for _, p := range f.snapshot() {
		stats.TotalProducts++
		stats.TotalInventory += int64(p.InventoryCount)
		if p.IsLowStock() {
			stats.LowStockCount++
		}
		if p.IsOverstock() {
			stats.OverstockCount++
		}
	}
	return &stats, nil
}

func (f *Fake) ListPage(ctx context.Context, page, size int) (*domain.ProductPage, error) {
	if err := f.begin("ListPage"); err != nil {
		return nil, err
	}
	all := f.snapshot()
	return &domain.ProductPage{
		Content:       pagination.VisibleSlice(all, page, size),
		TotalPages:    pagination.TotalPages(int64(len(all)), size),
		TotalElements: int64(len(all)),
		Number:        page,
		Size:          size,
	}, nil
}

func (f *Fake) UpdateInventory(ctx context.Context, id int64, update domain.InventoryUpdate) (*domain.Product, error) {
	if err := f.begin("UpdateInventory"); err != nil {
		return nil, err
	}
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].InventoryCount = update.InventoryCount
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, &domain.StatusError{Method: "PATCH", Path: "/products", StatusCode: 404}
}

func (f *Fake) GenerateForecast(ctx context.Context) ([]domain.ForecastRecord, error) {
	if err := f.begin("GenerateForecast"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ForecastRecord(nil), f.forecast...), nil
}

func (f *Fake) ForecastStatus(ctx context.Context) (domain.ForecastStatus, error) {
	if err := f.begin("ForecastStatus"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, nil
}
