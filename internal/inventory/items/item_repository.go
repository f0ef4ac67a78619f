package items

import (
	"fmt"

	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ItemRepository interface {
	GetItems(includeInactive bool) ([]models.InventoryItem, error)
	GetItem(itemID int) (*models.InventoryItem, error)
	PersistItem(item *models.InventoryItem) error
	UpdateItem(itemID int, req UpdateItemRequest) (models.InventoryItem, error)
	DeactivateItem(itemID int) error
	GetLowStockItems() ([]LowStockItem, error)
}

// LowStockItem is one (bar, item) pair sitting at or below its minimum.
type LowStockItem struct {
	BarID         int    `json:"bar_id" db:"bar_id"`
	BarName       string `json:"bar_name" db:"bar_name"`
	ItemID        int    `json:"inventory_item_id" db:"inventory_item_id"`
	ItemName      string `json:"item_name" db:"item_name"`
	Unit          string `json:"unit" db:"unit"`
	CurrentStock  int    `json:"current_stock" db:"current_stock"`
	MinStockLevel int    `json:"min_stock_level" db:"min_stock_level"`
}

type itemRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ItemRepository {
	return &itemRepositoryImpl{repository: r}
}

var itemColumns = []interface{}{
	"id", "name", "category", "unit", "min_stock_level",
	"cost_per_unit", "supplier", "is_active", "created_at", "updated_at",
}

func (r *itemRepositoryImpl) GetItems(includeInactive bool) ([]models.InventoryItem, error) {
	var items = []models.InventoryItem{}

	query := r.repository.GoquDBWrapper.
		Select(itemColumns...).
		From("inventory_items").
		Order(goqu.I("name").Asc())

	if !includeInactive {
		query = query.Where(goqu.Ex{"is_active": true})
	}

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return items, nil
}

func (r *itemRepositoryImpl) GetItem(itemID int) (*models.InventoryItem, error) {
	var item models.InventoryItem

	query := r.repository.GoquDBWrapper.
		Select(itemColumns...).
		From("inventory_items").
		Where(goqu.Ex{"id": itemID})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("inventory item", "%d", itemID)
	}

	return &item, nil
}

func (r *itemRepositoryImpl) PersistItem(item *models.InventoryItem) error {
	query := r.repository.GoquDBWrapper.Insert("inventory_items").
		Rows(goqu.Record{
			"name":            item.Name,
			"category":        item.Category,
			"unit":            item.Unit,
			"min_stock_level": item.MinStock,
			"cost_per_unit":   item.CostPerUnit,
			"supplier":        item.Supplier,
			"is_active":       true,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&item.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.WrapDBError("Inventory item name already in use", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert inventory item record: %w", err)
	}
	item.IsActive = true

	return nil
}

func (r *itemRepositoryImpl) UpdateItem(itemID int, req UpdateItemRequest) (models.InventoryItem, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.MinStock != nil {
		updates["min_stock_level"] = *req.MinStock
	}
	if req.CostPerUnit != nil {
		updates["cost_per_unit"] = *req.CostPerUnit
	}
	if req.Supplier != nil {
		updates["supplier"] = *req.Supplier
	}
	if len(updates) == 0 {
		return models.InventoryItem{}, fmt.Errorf("no fields to update")
	}
	updates["updated_at"] = goqu.L("NOW()")

	query := r.repository.GoquDBWrapper.
		Update("inventory_items").
		Set(updates).
		Where(goqu.Ex{"id": itemID}).
		Returning(itemColumns...)

	var item models.InventoryItem
	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("failed to update inventory item: %w", err)
	}
	if !found {
		return models.InventoryItem{}, apperrors.NewNotFound("inventory item", "%d", itemID)
	}

	return item, nil
}

// DeactivateItem is a soft delete. Movement history must survive the
// item disappearing from the catalog.
func (r *itemRepositoryImpl) DeactivateItem(itemID int) error {
	result, err := r.repository.GoquDBWrapper.
		Update("inventory_items").
		Set(goqu.Record{"is_active": false, "updated_at": goqu.L("NOW()")}).
		Where(goqu.Ex{"id": itemID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to deactivate inventory item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFound("inventory item", "%d", itemID)
	}

	return nil
}

func (r *itemRepositoryImpl) GetLowStockItems() ([]LowStockItem, error) {
	var items = []LowStockItem{}

	query := r.repository.GoquDBWrapper.
		From(goqu.T("bar_inventory").As("s")).
		Select(
			goqu.I("s.bar_id").As("bar_id"),
			goqu.I("b.name").As("bar_name"),
			goqu.I("s.inventory_item_id").As("inventory_item_id"),
			goqu.I("i.name").As("item_name"),
			goqu.I("i.unit").As("unit"),
			goqu.I("s.current_stock").As("current_stock"),
			goqu.I("s.min_stock_level").As("min_stock_level"),
		).
		Join(goqu.T("inventory_items").As("i"), goqu.On(goqu.Ex{"s.inventory_item_id": goqu.I("i.id")})).
		Join(goqu.T("bars").As("b"), goqu.On(goqu.Ex{"s.bar_id": goqu.I("b.id")})).
		Where(
			goqu.Ex{"i.is_active": true},
			goqu.I("s.current_stock").Lte(goqu.I("s.min_stock_level")),
		).
		Order(goqu.I("b.name").Asc(), goqu.I("i.name").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return items, nil
}
