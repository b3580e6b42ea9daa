package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/filter"
)

// UnknownCategory is shown when the category name cannot be determined
const UnknownCategory = "Unknown Category"

// GetCategoryQuery represents the query for a category page
type GetCategoryQuery struct {
	CategoryID int64
	Search     string
	Status     string
}

// CategoryView is the category page view model
type CategoryView struct {
	CategoryID   int64            `json:"categoryId"`
	CategoryName string           `json:"categoryName"`
	Products     []domain.Product `json:"products"`
	Total        int              `json:"total"`
}

// GetCategoryHandler handles the category query
type GetCategoryHandler struct {
	client domain.CatalogClient
}

// NewGetCategoryHandler creates a new category handler
func NewGetCategoryHandler(client domain.CatalogClient) *GetCategoryHandler {
	return &GetCategoryHandler{client: client}
}

// Handle executes the category query
func (h *GetCategoryHandler) Handle(ctx context.Context, q GetCategoryQuery) (*CategoryView, error) {
	if q.CategoryID <= 0 {
		return nil, domain.NewValidationError("id", "category id must be positive")
	}

	products, err := h.client.ListByCategory(ctx, q.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category %d: %w", q.CategoryID, err)
	}

	name := UnknownCategory
	if len(products) > 0 && products[0].CategoryName() != "" {
		name = products[0].CategoryName()
	}

	return &CategoryView{
		CategoryID:   q.CategoryID,
		CategoryName: name,
		Products:     filter.Apply(products, filter.Criteria{Search: q.Search, Status: q.Status}),
		Total:        len(products),
	}, nil
}
