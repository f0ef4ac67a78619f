package stocks

import "barpos/pkg/models"

type MovementRequest struct {
	BarID           int
	InventoryItemID int
	Type            models.MovementType
	Quantity        int
	ActorID         *int
	Notes           string
}

type CreateMovementRequest struct {
	InventoryItemID int                 `json:"inventory_item_id" binding:"required"`
	Type            models.MovementType `json:"movement_type" binding:"required"`
	Quantity        int                 `json:"quantity"`
	Notes           string              `json:"notes"`
}
