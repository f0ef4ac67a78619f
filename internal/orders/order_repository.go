package orders

import (
	"fmt"

	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *OrderRepository {
	return &OrderRepository{repository: r}
}

var orderColumns = []interface{}{
	"id", "order_number", "order_type", "table_number", "status",
	"subtotal", "vat_amount", "service_charge", "discount_amount", "total_amount",
	"bar_id", "notes", "created_by", "created_at",
}

func (r *OrderRepository) InsertOrder(tx *goqu.TxDatabase, order *models.Order) (int, error) {
	query := tx.Insert("orders").
		Rows(goqu.Record{
			"order_number":    order.OrderNumber,
			"order_type":      order.OrderType,
			"table_number":    order.TableNumber,
			"status":          order.Status,
			"subtotal":        order.Subtotal,
			"vat_amount":      order.VATAmount,
			"service_charge":  order.ServiceCharge,
			"discount_amount": order.DiscountAmount,
			"total_amount":    order.TotalAmount,
			"bar_id":          order.BarID,
			"notes":           order.Notes,
			"created_by":      order.CreatedBy,
		}).
		Returning("id")

	var orderID int
	if _, err := query.Executor().ScanVal(&orderID); err != nil {
		return 0, fmt.Errorf("failed to insert order record: %w", err)
	}

	return orderID, nil
}

func (r *OrderRepository) InsertOrderItems(tx *goqu.TxDatabase, orderID int, items []models.OrderItem) error {
	var records []goqu.Record
	for _, item := range items {
		records = append(records, goqu.Record{
			"order_id":     orderID,
			"menu_item_id": item.MenuItemID,
			"item_name":    item.ItemName,
			"quantity":     item.Quantity,
			"unit_price":   item.UnitPrice,
			"total_price":  item.TotalPrice,
			"notes":        item.Notes,
		})
	}

	query := tx.Insert("order_items").Rows(records)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	return nil
}

func (r *OrderRepository) InsertPayment(tx *goqu.TxDatabase, orderID int, method string, amount decimal.Decimal) error {
	query := tx.Insert("payments").
		Rows(goqu.Record{
			"order_id":       orderID,
			"payment_method": method,
			"amount":         amount,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert payment record: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetOrder(orderID int) (*models.Order, error) {
	var order models.Order

	query := r.repository.GoquDBWrapper.
		Select(orderColumns...).
		From("orders").
		Where(goqu.Ex{"id": orderID})

	found, err := query.Executor().ScanStruct(&order)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("order", "%d", orderID)
	}

	items, err := r.getOrderItems(orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *OrderRepository) getOrderItems(orderID int) ([]models.OrderItem, error) {
	var items []models.OrderItem

	query := r.repository.GoquDBWrapper.
		Select("id", "order_id", "menu_item_id", "item_name", "quantity", "unit_price", "total_price", "notes").
		From("order_items").
		Where(goqu.Ex{"order_id": orderID})

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for order items: %w", err)
	}

	return items, nil
}

// GetActiveOrders lists orders the bar display cares about, oldest
// first so the queue reads top to bottom.
func (r *OrderRepository) GetActiveOrders(barID *int, statuses []string) ([]models.Order, error) {
	var ordersList []models.Order

	query := r.repository.GoquDBWrapper.
		Select(orderColumns...).
		From("orders").
		Where(goqu.C("status").In(statuses)).
		Order(goqu.I("created_at").Asc())

	if barID != nil {
		query = query.Where(goqu.Ex{"bar_id": *barID})
	}

	if err := query.Executor().ScanStructs(&ordersList); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for orders: %w", err)
	}

	for i := range ordersList {
		items, err := r.getOrderItems(ordersList[i].ID)
		if err != nil {
			return nil, err
		}
		ordersList[i].Items = items
	}

	return ordersList, nil
}

func (r *OrderRepository) UpdateStatus(orderID int, status string) error {
	query := r.repository.GoquDBWrapper.
		Update("orders").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": orderID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for order %d: %w", orderID, err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFound("order", "%d", orderID)
	}

	return nil
}
