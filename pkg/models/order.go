package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID             int             `json:"id" db:"id"`
	OrderNumber    string          `json:"order_number" db:"order_number"`
	OrderType      string          `json:"order_type" db:"order_type"`
	TableNumber    *string         `json:"table_number" db:"table_number"`
	Status         string          `json:"status" db:"status"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	VATAmount      decimal.Decimal `json:"vat_amount" db:"vat_amount"`
	ServiceCharge  decimal.Decimal `json:"service_charge" db:"service_charge"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	BarID          *int            `json:"bar_id" db:"bar_id"`
	Notes          *string         `json:"notes" db:"notes"`
	CreatedBy      *int            `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	Items          []OrderItem     `json:"items" db:"-"`
}

type OrderItem struct {
	ID         int             `json:"id" db:"id"`
	OrderID    int             `json:"order_id" db:"order_id"`
	MenuItemID *int            `json:"menu_item_id" db:"menu_item_id"`
	ItemName   string          `json:"item_name" db:"item_name"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	Notes      *string         `json:"notes" db:"notes"`
}

// Payment is a passive record of how an order was settled; no gateway
// processing happens here.
type Payment struct {
	ID            int             `json:"id" db:"id"`
	OrderID       int             `json:"order_id" db:"order_id"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

func (o *Order) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   o.ID,
		ResourceType: "order",
	}
}
