package orders

import (
	"strings"
	"testing"

	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockMenuSource struct {
	mock.Mock
}

func (m *MockMenuSource) GetMenuItemMap() (map[int]models.MenuItem, error) {
	args := m.Called()
	return args.Get(0).(map[int]models.MenuItem), args.Error(1)
}

type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) GetBarStock(barID int) (map[int]models.BarStock, error) {
	args := m.Called(barID)
	return args.Get(0).(map[int]models.BarStock), args.Error(1)
}

func (m *MockStockLedger) ApplyMovementOut(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int, actorID *int, notes string) (*models.BarStock, error) {
	args := m.Called(tx, barID, inventoryItemID, quantity, actorID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BarStock), args.Error(1)
}

func newTestService(menu MenuSource, stocks StockLedger) *OrderService {
	return NewService(nil, nil, menu, stocks, zap.NewNop())
}

func intPtr(v int) *int { return &v }

func trackedMenuItem(id, inventoryItemID int) models.MenuItem {
	return models.MenuItem{
		ID:              id,
		Name:            "Pint of Lager",
		Price:           decimal.NewFromFloat(6.50),
		TrackInventory:  true,
		InventoryItemID: intPtr(inventoryItemID),
		IsActive:        true,
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	service := newTestService(new(MockMenuSource), new(MockStockLedger))

	order, validation, err := service.Checkout(CheckoutRequest{BarID: 1, Cart: nil}, nil)

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.Nil(t, validation)
}

func TestCheckoutBlockedByShortfall(t *testing.T) {
	menu := new(MockMenuSource)
	stocks := new(MockStockLedger)

	menu.On("GetMenuItemMap").Return(map[int]models.MenuItem{
		10: trackedMenuItem(10, 42),
	}, nil)
	stocks.On("GetBarStock", 1).Return(map[int]models.BarStock{
		42: {BarID: 1, InventoryItemID: 42, CurrentStock: 3},
	}, nil)

	service := newTestService(menu, stocks)

	order, validation, err := service.Checkout(CheckoutRequest{
		BarID:         1,
		OrderType:     "dine_in",
		PaymentMethod: "cash",
		Cart: []models.CartLine{
			{MenuItemID: 10, Name: "Pint of Lager", Quantity: 5, UnitPrice: decimal.NewFromFloat(6.50)},
		},
	}, nil)

	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.NotNil(t, validation)
	assert.False(t, validation.Valid)
	assert.Len(t, validation.Shortfalls, 1)
	assert.Equal(t, "Pint of Lager", validation.Shortfalls[0].Name)
	assert.Equal(t, 3, validation.Shortfalls[0].Available)
	assert.Equal(t, 5, validation.Shortfalls[0].Requested)

	stocks.AssertNotCalled(t, "ApplyMovementOut",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutAggregatesSharedInventoryDemand(t *testing.T) {
	menu := new(MockMenuSource)
	stocks := new(MockStockLedger)

	small := trackedMenuItem(10, 42)
	small.Name = "Small Beer"
	large := trackedMenuItem(11, 42)
	large.Name = "Large Beer"

	menu.On("GetMenuItemMap").Return(map[int]models.MenuItem{10: small, 11: large}, nil)
	stocks.On("GetBarStock", 1).Return(map[int]models.BarStock{
		42: {BarID: 1, InventoryItemID: 42, CurrentStock: 5},
	}, nil)

	service := newTestService(menu, stocks)

	order, validation, err := service.Checkout(CheckoutRequest{
		BarID:         1,
		OrderType:     "takeaway",
		PaymentMethod: "card",
		Cart: []models.CartLine{
			{MenuItemID: 10, Name: "Small Beer", Quantity: 3, UnitPrice: decimal.NewFromFloat(4.00)},
			{MenuItemID: 11, Name: "Large Beer", Quantity: 3, UnitPrice: decimal.NewFromFloat(7.00)},
		},
	}, nil)

	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.NotNil(t, validation)
	assert.Len(t, validation.Shortfalls, 1)
	assert.Equal(t, 6, validation.Shortfalls[0].Requested)
	assert.Equal(t, 5, validation.Shortfalls[0].Available)
}

func TestBuildOrderTotals(t *testing.T) {
	service := newTestService(new(MockMenuSource), new(MockStockLedger))

	order := service.buildOrder(CheckoutRequest{
		BarID:          1,
		OrderType:      "dine_in",
		PaymentMethod:  "cash",
		VATAmount:      decimal.NewFromFloat(1.30),
		ServiceCharge:  decimal.NewFromFloat(0.50),
		DiscountAmount: decimal.NewFromFloat(2.00),
		Cart: []models.CartLine{
			{MenuItemID: 10, Name: "Pint of Lager", Quantity: 2, UnitPrice: decimal.NewFromFloat(6.50)},
		},
	}, intPtr(7))

	assert.True(t, order.Subtotal.Equal(decimal.NewFromFloat(13.00)), "subtotal %s", order.Subtotal)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(12.80)), "total %s", order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 7, *order.CreatedBy)
	assert.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].TotalPrice.Equal(decimal.NewFromFloat(13.00)))
}

func TestOrderNumberFormat(t *testing.T) {
	first := newOrderNumber()
	second := newOrderNumber()

	assert.True(t, strings.HasPrefix(first, "ORD-"))
	assert.Len(t, first, len("ORD-20060102-")+8)
	assert.NotEqual(t, first, second)
}
