// Package pos holds the stock-aware cart logic: demand aggregation
// over cart lines and availability resolution against a bar stock
// snapshot. Everything here is pure computation; the browse badge,
// the add-to-cart check and the checkout gate all consume these same
// functions so they can never disagree.
package pos

import "barpos/pkg/models"

// StockSnapshot is a bar's stock rows keyed by inventory item id,
// fetched just-in-time. A nil snapshot means no bar is selected.
type StockSnapshot map[int]models.BarStock

// Demand is the total cart quantity landing on one inventory item.
// Two menu items can share an inventory item (a small and a large pour
// of the same keg), so stock is checked on the shared item, not per
// menu item. Label is the first-seen menu item name, kept stable for
// error messages.
type Demand struct {
	InventoryItemID int
	Total           int
	Label           string
}

// AggregateDemand collapses cart lines into per-inventory-item demand,
// ordered by first occurrence in the cart. Lines whose menu item does
// not track inventory, or has no linked inventory item, are skipped.
func AggregateDemand(cart []models.CartLine, menuItems map[int]models.MenuItem) []Demand {
	var demands []Demand
	index := make(map[int]int)

	for _, line := range cart {
		menuItem, ok := menuItems[line.MenuItemID]
		if !ok || !menuItem.TrackInventory || menuItem.InventoryItemID == nil {
			continue
		}

		itemID := *menuItem.InventoryItemID
		if i, seen := index[itemID]; seen {
			demands[i].Total += line.Quantity
			continue
		}

		index[itemID] = len(demands)
		demands = append(demands, Demand{
			InventoryItemID: itemID,
			Total:           line.Quantity,
			Label:           menuItem.Name,
		})
	}

	return demands
}

// ItemStatus is the browse-time availability of one menu item.
// Available already subtracts what the cart holds, so it is the
// quantity that can still be added without writing anything.
type ItemStatus struct {
	MenuItemID   int  `json:"menu_item_id"`
	Available    int  `json:"available"`
	Unlimited    bool `json:"unlimited"`
	IsLowStock   bool `json:"is_low_stock"`
	IsOutOfStock bool `json:"is_out_of_stock"`
}

// ResolveItemStatus computes availability for one menu item against a
// snapshot, reserving inCartQty for the current session. Tracked items
// without a snapshot (no bar selected) or without a stock row fail
// closed.
func ResolveItemStatus(menuItem models.MenuItem, snapshot StockSnapshot, inCartQty int) ItemStatus {
	if !menuItem.TrackInventory || menuItem.InventoryItemID == nil {
		return ItemStatus{
			MenuItemID: menuItem.ID,
			Unlimited:  true,
		}
	}

	if snapshot == nil {
		return ItemStatus{
			MenuItemID:   menuItem.ID,
			IsOutOfStock: true,
		}
	}

	stock, ok := snapshot[*menuItem.InventoryItemID]
	if !ok {
		return ItemStatus{
			MenuItemID:   menuItem.ID,
			IsOutOfStock: true,
		}
	}

	available := stock.CurrentStock - inCartQty
	isOutOfStock := available <= 0
	isLowStock := !isOutOfStock && available <= stock.MinStockLevel

	return ItemStatus{
		MenuItemID:   menuItem.ID,
		Available:    available,
		IsLowStock:   isLowStock,
		IsOutOfStock: isOutOfStock,
	}
}

// Shortfall is one inventory item whose aggregated cart demand exceeds
// the bar's stock.
type Shortfall struct {
	Name      string `json:"name"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// CartValidation is a normal result, not an error: an invalid cart is
// rendered by the caller the same way a valid one is.
type CartValidation struct {
	Valid      bool        `json:"valid"`
	Shortfalls []Shortfall `json:"shortfalls"`
}

// ValidateCart checks the whole cart's aggregated demand against raw
// current stock. Unlike ResolveItemStatus this compares against the
// full stock level, because the entire cart's demand for an item must
// fit within it at once. Checkout must be blocked while Valid is false.
func ValidateCart(cart []models.CartLine, menuItems map[int]models.MenuItem, snapshot StockSnapshot) CartValidation {
	shortfalls := []Shortfall{}

	for _, demand := range AggregateDemand(cart, menuItems) {
		available := 0
		if stock, ok := snapshot[demand.InventoryItemID]; ok {
			available = stock.CurrentStock
		}

		if available < demand.Total {
			shortfalls = append(shortfalls, Shortfall{
				Name:      demand.Label,
				Available: available,
				Requested: demand.Total,
			})
		}
	}

	return CartValidation{
		Valid:      len(shortfalls) == 0,
		Shortfalls: shortfalls,
	}
}

// CartQuantityFor sums the cart's quantity for one menu item. In the
// steady state a cart holds one line per menu item, but the sum keeps
// the resolver honest if a client sends duplicates.
func CartQuantityFor(cart []models.CartLine, menuItemID int) int {
	total := 0
	for _, line := range cart {
		if line.MenuItemID == menuItemID {
			total += line.Quantity
		}
	}
	return total
}
