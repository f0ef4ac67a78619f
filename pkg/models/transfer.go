package models

import "time"

const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusExpired   = "expired"
	TransferStatusCancelled = "cancelled"
)

// Transfer moves one inventory item between two bars. Pending is the
// only non-terminal status; completed, expired and cancelled rows are
// never revisited.
type Transfer struct {
	ID               int        `json:"id" db:"id"`
	SourceBarID      int        `json:"source_bar_id" db:"source_bar_id"`
	DestinationBarID int        `json:"destination_bar_id" db:"destination_bar_id"`
	InventoryItemID  int        `json:"inventory_item_id" db:"inventory_item_id"`
	Quantity         int        `json:"quantity" db:"quantity"`
	Status           string     `json:"status" db:"status"`
	Notes            *string    `json:"notes" db:"notes"`
	CreatedBy        *int       `json:"created_by" db:"created_by"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	CompletedAt      *time.Time `json:"completed_at" db:"completed_at"`
}

func (t *Transfer) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "transfer",
	}
}

type TransferRequest struct {
	SourceBarID      int    `json:"source_bar_id" binding:"required"`
	DestinationBarID int    `json:"destination_bar_id" binding:"required"`
	InventoryItemID  int    `json:"inventory_item_id" binding:"required"`
	Quantity         int    `json:"quantity" binding:"required,gt=0"`
	Notes            string `json:"notes"`
}
