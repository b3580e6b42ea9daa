package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
)

func fixtures() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Widget", SKU: "W-100", InventoryStatus: "low stock",
			Category: &domain.Category{ID: 1, Name: "Hardware"}},
		{ID: 2, Name: "Gadget", SKU: "G-200", InventoryStatus: "in stock",
			Category: &domain.Category{ID: 2, Name: "Electronics"}},
	}
}

func TestMatchesComposition(t *testing.T) {
	ps := fixtures()

	assert.True(t, Matches(ps[0], "widg", "all"))
	assert.False(t, Matches(ps[1], "widg", "all"))

	assert.False(t, Matches(ps[0], "", "overstock"))
	assert.False(t, Matches(ps[1], "", "overstock"))
}

func TestMatchesSearchFields(t *testing.T) {
	p := fixtures()[1]

	assert.True(t, Matches(p, "", ""))
	assert.True(t, Matches(p, "GADGET", "all"))
	assert.True(t, Matches(p, "g-2", "all"))
	assert.True(t, Matches(p, "electro", "all"))
	assert.False(t, Matches(p, "hardware", "all"))
}

func TestMatchesStatusIsExactCaseInsensitive(t *testing.T) {
	p := fixtures()[0]

	assert.True(t, Matches(p, "", "Low Stock"))
	assert.True(t, Matches(p, "", "LOW STOCK"))
	assert.False(t, Matches(p, "", "low"))
	assert.True(t, Matches(p, "", "ALL"))
}

func TestMatchesWithoutCategory(t *testing.T) {
	p := domain.Product{Name: "Loose part", SKU: "LP-1", InventoryStatus: domain.StatusInStock}

	assert.True(t, Matches(p, "loose", "in stock"))
	assert.False(t, Matches(p, "hardware", "all"))
}

func TestApplyPreservesOrder(t *testing.T) {
	ps := fixtures()

	assert.Equal(t, ps, Apply(ps, Criteria{}))
	assert.Equal(t, ps[:1], Apply(ps, Criteria{Search: "w", Status: "low stock"}))
	assert.Empty(t, Apply(ps, Criteria{Status: "overstock"}))
	assert.True(t, Criteria{Status: "All"}.IsZero())
	assert.False(t, Criteria{Search: "x"}.IsZero())
}
