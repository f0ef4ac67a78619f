package models

import "time"

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

func (m MovementType) IsValid() bool {
	switch m {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	default:
		return false
	}
}

// StockMovement is an append-only audit record. Rows are inserted once
// and never updated or deleted.
type StockMovement struct {
	ID              int          `json:"id" db:"id"`
	BarID           int          `json:"bar_id" db:"bar_id"`
	InventoryItemID int          `json:"inventory_item_id" db:"inventory_item_id"`
	MovementType    MovementType `json:"movement_type" db:"movement_type"`
	Quantity        int          `json:"quantity" db:"quantity"`
	PreviousStock   int          `json:"previous_stock" db:"previous_stock"`
	NewStock        int          `json:"new_stock" db:"new_stock"`
	Notes           *string      `json:"notes" db:"notes"`
	CreatedBy       *int         `json:"created_by" db:"created_by"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

func (m *StockMovement) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ID,
		ResourceType: "stock_movement",
	}
}
