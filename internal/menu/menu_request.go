package menu

import "github.com/shopspring/decimal"

type MenuItemRequest struct {
	Name            string          `json:"name" binding:"required"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	CategoryID      *int            `json:"category_id"`
	TrackInventory  bool            `json:"track_inventory"`
	InventoryItemID *int            `json:"inventory_item_id"`
}
