package orders

import (
	"fmt"
	"strings"
	"time"

	"barpos/internal/pos"
	"barpos/internal/repository"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MenuSource interface {
	GetMenuItemMap() (map[int]models.MenuItem, error)
}

// StockLedger is the slice of the stock ledger checkout needs: a fresh
// snapshot to validate against, and transactional out-movements when
// the order commits.
type StockLedger interface {
	GetBarStock(barID int) (map[int]models.BarStock, error)
	ApplyMovementOut(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int, actorID *int, notes string) (*models.BarStock, error)
}

type CheckoutRequest struct {
	BarID          int               `json:"bar_id" binding:"required"`
	OrderType      string            `json:"order_type" binding:"required"`
	TableNumber    *string           `json:"table_number"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
	VATAmount      decimal.Decimal   `json:"vat_amount"`
	ServiceCharge  decimal.Decimal   `json:"service_charge"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Notes          *string           `json:"notes"`
	Cart           []models.CartLine `json:"cart" binding:"required"`
}

type OrderService struct {
	r      *repository.Repository
	orders *OrderRepository
	menu   MenuSource
	stocks StockLedger
	logger *zap.Logger
}

func NewService(r *repository.Repository, orders *OrderRepository, menu MenuSource, stocks StockLedger, logger *zap.Logger) *OrderService {
	return &OrderService{
		r:      r,
		orders: orders,
		menu:   menu,
		stocks: stocks,
		logger: logger,
	}
}

// Checkout is the final stock gate. It re-validates the cart against a
// snapshot fetched right now (the client's view may be stale), and only
// then writes order, items, payment and the aggregated out-movements in
// one transaction. A failed validation is a result, not an error.
func (s *OrderService) Checkout(req CheckoutRequest, actorID *int) (*models.Order, *pos.CartValidation, error) {
	if len(req.Cart) == 0 {
		return nil, nil, fmt.Errorf("cart is empty")
	}

	menuItems, err := s.menu.GetMenuItemMap()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch menu items: %w", err)
	}

	snapshot, err := s.stocks.GetBarStock(req.BarID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch bar stock: %w", err)
	}

	validation := pos.ValidateCart(req.Cart, menuItems, snapshot)
	if !validation.Valid {
		return nil, &validation, nil
	}

	order := s.buildOrder(req, actorID)

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		orderID, err := s.orders.InsertOrder(tx, order)
		if err != nil {
			return err
		}
		order.ID = orderID

		if err := s.orders.InsertOrderItems(tx, orderID, order.Items); err != nil {
			return err
		}

		if err := s.orders.InsertPayment(tx, orderID, req.PaymentMethod, order.TotalAmount); err != nil {
			return err
		}

		movementNote := fmt.Sprintf("Order %s", order.OrderNumber)
		for _, demand := range pos.AggregateDemand(req.Cart, menuItems) {
			if _, err := s.stocks.ApplyMovementOut(tx, req.BarID, demand.InventoryItemID, demand.Total, actorID, movementNote); err != nil {
				return fmt.Errorf("failed to deduct stock for %s: %w", demand.Label, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int("order_id", order.ID),
		zap.Int("bar_id", req.BarID))

	return order, &validation, nil
}

func (s *OrderService) buildOrder(req CheckoutRequest, actorID *int) *models.Order {
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Cart))

	for _, line := range req.Cart {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		menuItemID := line.MenuItemID
		var notes *string
		if line.Notes != "" {
			n := line.Notes
			notes = &n
		}

		items = append(items, models.OrderItem{
			MenuItemID: &menuItemID,
			ItemName:   line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: lineTotal,
			Notes:      notes,
		})
	}

	total := subtotal.Add(req.VATAmount).Add(req.ServiceCharge).Sub(req.DiscountAmount)
	barID := req.BarID

	return &models.Order{
		OrderNumber:    newOrderNumber(),
		OrderType:      req.OrderType,
		TableNumber:    req.TableNumber,
		Status:         models.OrderStatusPending,
		Subtotal:       subtotal,
		VATAmount:      req.VATAmount,
		ServiceCharge:  req.ServiceCharge,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    total,
		BarID:          &barID,
		Notes:          req.Notes,
		CreatedBy:      actorID,
		CreatedAt:      time.Now(),
		Items:          items,
	}
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

var statusTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:     {models.OrderStatusCompleted},
}

func (s *OrderService) UpdateStatus(orderID int, status string) (*models.Order, error) {
	order, err := s.orders.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range statusTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("order %d cannot move from %s to %s", orderID, order.Status, status)
	}

	if err := s.orders.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}

	return s.orders.GetOrder(orderID)
}
