package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InventoryStatus is the stock classification computed by the upstream catalog
type InventoryStatus string

const (
	StatusInStock   InventoryStatus = "In Stock"
	StatusLowStock  InventoryStatus = "Low Stock"
	StatusOverstock InventoryStatus = "Overstock"
)

// Category is the product category reference
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Product represents a catalog product as served by the upstream inventory API
type Product struct {
	ID              int64           `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        *Category       `json:"category"`
	Price           decimal.Decimal `json:"price"`
	InventoryCount  int             `json:"inventoryCount"`
	MinStockLevel   int             `json:"minStockLevel"`
	MaxStockLevel   int             `json:"maxStockLevel"`
	InventoryStatus InventoryStatus `json:"inventoryStatus"`
}

// CategoryName returns the category name or an empty string for uncategorized products
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// StockValue is price times inventory count
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.InventoryCount)))
}

// IsLowStock reports whether the count is at or below the minimum stock level
func (p *Product) IsLowStock() bool {
	return p.InventoryCount <= p.MinStockLevel
}

// IsOverstock reports whether the count is at or above the maximum stock level
func (p *Product) IsOverstock() bool {
	return p.MaxStockLevel > 0 && p.InventoryCount >= p.MaxStockLevel
}

// StatusLabel returns the display label, defaulting to In Stock for unknown values
func (p *Product) StatusLabel() string {
	switch strings.ToLower(string(p.InventoryStatus)) {
	case "low stock":
		return string(StatusLowStock)
	case "overstock":
		return string(StatusOverstock)
	default:
		return string(StatusInStock)
	}
}

// ProductStats holds the aggregate counts shown in the dashboard tiles
type ProductStats struct {
	TotalProducts  int64 `json:"totalProducts"`
	TotalInventory int64 `json:"totalInventory"`
	LowStockCount  int64 `json:"lowStockCount"`
	OverstockCount int64 `json:"overstockCount"`
}

// ProductPage is one server-side page of products
type ProductPage struct {
	Content       []Product `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

// InventoryUpdate is the PATCH body accepted by the upstream catalog
type InventoryUpdate struct {
	InventoryCount int `json:"inventoryCount"`
}

// Validate rejects negative inventory counts
func (u InventoryUpdate) Validate() error {
	if u.InventoryCount < 0 {
		return NewValidationError("inventoryCount", "inventory count cannot be negative")
	}
	return nil
}
