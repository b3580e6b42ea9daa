// Package filter narrows an in-memory page of products by free text and status.
//
// Filtering never fetches more data: it applies only to the records it is given,
// which for server-paginated views is the currently loaded page.
package filter

import (
	"strings"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
)

// StatusAll is the reserved status value that disables status filtering
const StatusAll = "all"

// Criteria combines a search term and a status filter
type Criteria struct {
	Search string `json:"search"`
	Status string `json:"status"`
}

// IsZero reports whether the criteria let every record through
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" && isAllStatus(c.Status)
}

// Matches reports whether p matches both the search term and the status filter.
// The search is a case-insensitive substring match on name, SKU and category
// name; the status is a case-insensitive equality check against the product status.
func Matches(p domain.Product, search, status string) bool {
	return matchesSearch(p, search) && matchesStatus(p, status)
}

// Apply returns the products matching c, preserving order
func Apply(products []domain.Product, c Criteria) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, c.Search, c.Status) {
			out = append(out, p)
		}
	}
	return out
}

func matchesSearch(p domain.Product, search string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.SKU), term) ||
		strings.Contains(strings.ToLower(p.CategoryName()), term)
}

func matchesStatus(p domain.Product, status string) bool {
	if isAllStatus(status) {
		return true
	}
	return strings.EqualFold(string(p.InventoryStatus), strings.TrimSpace(status))
}

func isAllStatus(status string) bool {
	s := strings.TrimSpace(status)
	return s == "" || strings.EqualFold(s, StatusAll)
}
