package pos

import (
	"testing"

	"barpos/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func trackedMenuItem(id int, name string, inventoryItemID int) models.MenuItem {
	return models.MenuItem{
		ID:              id,
		Name:            name,
		Price:           decimal.NewFromInt(5),
		TrackInventory:  true,
		InventoryItemID: intPtr(inventoryItemID),
		IsActive:        true,
	}
}

func snapshotWith(itemID, currentStock, minStock int) StockSnapshot {
	return StockSnapshot{
		itemID: models.BarStock{
			BarID:           1,
			InventoryItemID: itemID,
			CurrentStock:    currentStock,
			MinStockLevel:   minStock,
		},
	}
}

func TestAggregateDemandSharedInventoryItem(t *testing.T) {
	menuItems := map[int]models.MenuItem{
		10: trackedMenuItem(10, "Small Beer", 7),
		11: trackedMenuItem(11, "Large Beer", 7),
	}
	cart := []models.CartLine{
		{LineID: "a", MenuItemID: 10, Quantity: 3},
		{LineID: "b", MenuItemID: 11, Quantity: 3},
	}

	demands := AggregateDemand(cart, menuItems)

	assert.Len(t, demands, 1)
	assert.Equal(t, 7, demands[0].InventoryItemID)
	assert.Equal(t, 6, demands[0].Total)
	assert.Equal(t, "Small Beer", demands[0].Label, "label must stay with the first-seen menu item")
}

func TestAggregateDemandSkipsUntrackedLines(t *testing.T) {
	menuItems := map[int]models.MenuItem{
		10: trackedMenuItem(10, "Pint of Lager", 7),
		11: {ID: 11, Name: "Service Charge", TrackInventory: false},
		12: {ID: 12, Name: "Tap Water", TrackInventory: true, InventoryItemID: nil},
	}
	cart := []models.CartLine{
		{LineID: "a", MenuItemID: 10, Quantity: 2},
		{LineID: "b", MenuItemID: 11, Quantity: 4},
		{LineID: "c", MenuItemID: 12, Quantity: 1},
		{LineID: "d", MenuItemID: 99, Quantity: 5}, // unknown menu item
	}

	demands := AggregateDemand(cart, menuItems)

	assert.Len(t, demands, 1)
	assert.Equal(t, 2, demands[0].Total)
}

func TestResolveItemStatusUntrackedAlwaysAvailable(t *testing.T) {
	item := models.MenuItem{ID: 1, Name: "Service Charge", TrackInventory: false}

	status := ResolveItemStatus(item, nil, 100)

	assert.True(t, status.Unlimited)
	assert.False(t, status.IsOutOfStock)
	assert.False(t, status.IsLowStock)
}

func TestResolveItemStatusFailsClosedWithoutSnapshot(t *testing.T) {
	item := trackedMenuItem(1, "Pint of Lager", 7)

	status := ResolveItemStatus(item, nil, 0)

	assert.True(t, status.IsOutOfStock)
	assert.False(t, status.Unlimited)
}

func TestResolveItemStatusFailsClosedWithoutStockRow(t *testing.T) {
	item := trackedMenuItem(1, "Pint of Lager", 7)

	status := ResolveItemStatus(item, snapshotWith(8, 50, 5), 0)

	assert.True(t, status.IsOutOfStock)
}

func TestResolveItemStatusLiveReservation(t *testing.T) {
	item := trackedMenuItem(1, "Pint of Lager", 7)
	snapshot := snapshotWith(7, 10, 3)

	status := ResolveItemStatus(item, snapshot, 0)
	assert.Equal(t, 10, status.Available)
	assert.False(t, status.IsLowStock)

	// Adding to the cart must never increase reported availability.
	previous := status.Available
	for qty := 1; qty <= 12; qty++ {
		status = ResolveItemStatus(item, snapshot, qty)
		assert.LessOrEqual(t, status.Available, previous)
		previous = status.Available
	}

	status = ResolveItemStatus(item, snapshot, 8)
	assert.Equal(t, 2, status.Available)
	assert.True(t, status.IsLowStock)
	assert.False(t, status.IsOutOfStock)

	status = ResolveItemStatus(item, snapshot, 10)
	assert.True(t, status.IsOutOfStock)
	assert.False(t, status.IsLowStock, "out of stock wins over low stock")
}

func TestValidateCartNonOversell(t *testing.T) {
	menuItems := map[int]models.MenuItem{
		10: trackedMenuItem(10, "Pint of Lager", 7),
		11: trackedMenuItem(11, "Half Lager", 7),
		12: trackedMenuItem(12, "Gin Tonic", 8),
	}
	snapshot := StockSnapshot{
		7: {InventoryItemID: 7, CurrentStock: 10, MinStockLevel: 2},
		8: {InventoryItemID: 8, CurrentStock: 4, MinStockLevel: 1},
	}
	cart := []models.CartLine{
		{LineID: "a", MenuItemID: 10, Quantity: 6},
		{LineID: "b", MenuItemID: 11, Quantity: 4},
		{LineID: "c", MenuItemID: 12, Quantity: 4},
	}

	result := ValidateCart(cart, menuItems, snapshot)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Shortfalls)

	// When valid, every aggregate fits within current stock.
	for _, demand := range AggregateDemand(cart, menuItems) {
		assert.LessOrEqual(t, demand.Total, snapshot[demand.InventoryItemID].CurrentStock)
	}
}

func TestValidateCartSharedResourceShortfall(t *testing.T) {
	menuItems := map[int]models.MenuItem{
		10: trackedMenuItem(10, "Small Beer", 7),
		11: trackedMenuItem(11, "Large Beer", 7),
	}
	snapshot := snapshotWith(7, 5, 2)
	cart := []models.CartLine{
		{LineID: "a", MenuItemID: 10, Quantity: 3},
		{LineID: "b", MenuItemID: 11, Quantity: 3},
	}

	result := ValidateCart(cart, menuItems, snapshot)

	assert.False(t, result.Valid)
	assert.Len(t, result.Shortfalls, 1, "one aggregate shortfall, not one per menu item")
	assert.Equal(t, Shortfall{Name: "Small Beer", Available: 5, Requested: 6}, result.Shortfalls[0])
}

func TestValidateCartUntrackedNeverInShortfalls(t *testing.T) {
	menuItems := map[int]models.MenuItem{
		11: {ID: 11, Name: "Service Charge", TrackInventory: false},
	}
	cart := []models.CartLine{
		{LineID: "a", MenuItemID: 11, Quantity: 500},
	}

	result := ValidateCart(cart, menuItems, StockSnapshot{})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Shortfalls)
}

func TestValidateCartBlocksCheckoutScenario(t *testing.T) {
	menuItems := map[int]models.MenuItem{
		10: trackedMenuItem(10, "Pint of Lager", 7),
	}
	snapshot := snapshotWith(7, 4, 2)
	cart := []models.CartLine{
		{LineID: "a", MenuItemID: 10, Quantity: 5},
	}

	result := ValidateCart(cart, menuItems, snapshot)

	assert.False(t, result.Valid)
	assert.Equal(t, []Shortfall{{Name: "Pint of Lager", Available: 4, Requested: 5}}, result.Shortfalls)
}

func TestCartQuantityForSumsDuplicateLines(t *testing.T) {
	cart := []models.CartLine{
		{LineID: "a", MenuItemID: 10, Quantity: 2},
		{LineID: "b", MenuItemID: 10, Quantity: 3},
		{LineID: "c", MenuItemID: 11, Quantity: 1},
	}

	assert.Equal(t, 5, CartQuantityFor(cart, 10))
	assert.Equal(t, 0, CartQuantityFor(cart, 99))
}
