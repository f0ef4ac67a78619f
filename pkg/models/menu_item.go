package models

import "github.com/shopspring/decimal"

// MenuItem is the sale-facing item. When TrackInventory is set the item
// must be linked to exactly one inventory item; untracked items are
// always sellable regardless of stock.
type MenuItem struct {
	ID              int             `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Price           decimal.Decimal `json:"price" db:"price"`
	CategoryID      *int            `json:"category_id" db:"category_id"`
	TrackInventory  bool            `json:"track_inventory" db:"track_inventory"`
	InventoryItemID *int            `json:"inventory_item_id" db:"inventory_item_id"`
	IsActive        bool            `json:"is_active" db:"is_active"`
}

func (m *MenuItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ID,
		ResourceType: "menu_item",
	}
}
