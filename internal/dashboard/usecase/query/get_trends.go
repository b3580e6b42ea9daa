package query

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tair/inventory-dashboard/internal/dashboard/dataset"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
)

const (
	trendHighlightCount = 3
	uncategorized       = "Unknown"
)

// CategoryPerformance aggregates the products of one category
type CategoryPerformance struct {
	Name         string          `json:"name"`
	ProductCount int             `json:"productCount"`
	Units        int64           `json:"units"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// TrendsView is the trends page view model
type TrendsView struct {
	Categories       []CategoryPerformance `json:"categories"`
	TopProducts      []domain.Product      `json:"topProducts"`
	BottomProducts   []domain.Product      `json:"bottomProducts"`
	TopCategories    []CategoryPerformance `json:"topCategories"`
	BottomCategories []CategoryPerformance `json:"bottomCategories"`
	Source           dataset.Source        `json:"source"`
}

// GetTrendsHandler handles the trends query
type GetTrendsHandler struct {
	loader *dataset.Loader
}

// NewGetTrendsHandler creates a new trends handler
func NewGetTrendsHandler(loader *dataset.Loader) *GetTrendsHandler {
	return &GetTrendsHandler{loader: loader}
}

// Handle aggregates the product snapshot per category
func (h *GetTrendsHandler) Handle(ctx context.Context) (*TrendsView, error) {
	snap, source, err := h.loader.Products(ctx)
	if err != nil {
		return nil, err
	}

	products := snap.Data.Products
	categories := CategoryTrends(products)

	return &TrendsView{
		Categories:       categories,
		TopProducts:      head(products, trendHighlightCount),
		BottomProducts:   tailReversed(products, trendHighlightCount),
		TopCategories:    head(categories, trendHighlightCount),
		BottomCategories: tailReversed(categories, trendHighlightCount),
		Source:           source,
	}, nil
}

// CategoryTrends groups products by category name in order of first appearance.
// Revenue is price times inventory count.
func CategoryTrends(products []domain.Product) []CategoryPerformance {
	index := make(map[string]int)
	out := []CategoryPerformance{}

	for i := range products {
		p := &products[i]
		name := p.CategoryName()
		if name == "" {
			name = uncategorized
		}

		idx, ok := index[name]
		if !ok {
			idx = len(out)
			index[name] = idx
			out = append(out, CategoryPerformance{Name: name, TotalRevenue: decimal.Zero})
		}

		out[idx].ProductCount++
		out[idx].Units += int64(p.InventoryCount)
		out[idx].TotalRevenue = out[idx].TotalRevenue.Add(p.StockValue())
	}
	return out
}

func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}

func tailReversed[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		out = append(out, items[i])
	}
	return out
}
