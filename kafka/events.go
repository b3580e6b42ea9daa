package kafka

import "time"

// InventoryUpdatedEvent announces an inventory edit made through a dashboard instance
type InventoryUpdatedEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	Source          string    `json:"source"`
	ProductID       int64     `json:"product_id"`
	SKU             string    `json:"sku"`
	PreviousCount   int       `json:"previous_count"`
	InventoryCount  int       `json:"inventory_count"`
	InventoryStatus string    `json:"inventory_status"`
	Timestamp       time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeInventoryUpdated = "inventory.updated"
)

// Kafka topics
const (
	TopicInventoryUpdated = "inventory-updated"
)
