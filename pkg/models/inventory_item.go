package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Category    *string          `json:"category" db:"category"`
	Unit        string           `json:"unit" db:"unit"`
	MinStock    int              `json:"min_stock_level" db:"min_stock_level"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit" db:"cost_per_unit"`
	Supplier    *string          `json:"supplier" db:"supplier"`
	IsActive    bool             `json:"is_active" db:"is_active"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

func (i *InventoryItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "inventory_item",
	}
}
