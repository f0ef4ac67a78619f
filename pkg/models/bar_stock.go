package models

import "time"

// BarStock is one (bar, inventory item) stock row. It is mutated only
// through stock movements, never written directly by handlers.
type BarStock struct {
	ID              int       `json:"id" db:"id"`
	BarID           int       `json:"bar_id" db:"bar_id"`
	InventoryItemID int       `json:"inventory_item_id" db:"inventory_item_id"`
	CurrentStock    int       `json:"current_stock" db:"current_stock"`
	MinStockLevel   int       `json:"min_stock_level" db:"min_stock_level"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func (b *BarStock) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "bar_stock",
	}
}
