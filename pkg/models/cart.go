package models

import "github.com/shopspring/decimal"

// CartLine is client-held state, never persisted before checkout.
// A cart carries at most one line per menu item; adding the same item
// again increments the existing line's quantity.
type CartLine struct {
	LineID     string          `json:"line_id"`
	MenuItemID int             `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Notes      string          `json:"notes,omitempty"`
}
