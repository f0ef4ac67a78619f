package menu

import (
	"fmt"

	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type MenuRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *MenuRepository {
	return &MenuRepository{repository: r}
}

var menuItemColumns = []interface{}{
	"id", "name", "price", "category_id", "track_inventory", "inventory_item_id", "is_active",
}

func (r *MenuRepository) GetMenuItems(categoryID *int) ([]models.MenuItem, error) {
	var items []models.MenuItem

	query := r.repository.GoquDBWrapper.
		Select(menuItemColumns...).
		From("menu_items").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("name").Asc())

	if categoryID != nil {
		query = query.Where(goqu.Ex{"category_id": *categoryID})
	}

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for menu items: %w", err)
	}

	return items, nil
}

// GetMenuItemMap returns all active menu items keyed by id, the shape
// the demand aggregator consumes.
func (r *MenuRepository) GetMenuItemMap() (map[int]models.MenuItem, error) {
	items, err := r.GetMenuItems(nil)
	if err != nil {
		return nil, err
	}

	itemMap := make(map[int]models.MenuItem, len(items))
	for _, item := range items {
		itemMap[item.ID] = item
	}

	return itemMap, nil
}

func (r *MenuRepository) GetMenuItem(menuItemID int) (*models.MenuItem, error) {
	var item models.MenuItem

	query := r.repository.GoquDBWrapper.
		Select(menuItemColumns...).
		From("menu_items").
		Where(goqu.Ex{"id": menuItemID})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("menu item", "%d", menuItemID)
	}

	return &item, nil
}

func (r *MenuRepository) PersistMenuItem(req MenuItemRequest) (*models.MenuItem, error) {
	if err := validateLinkage(req); err != nil {
		return nil, err
	}

	item := models.MenuItem{
		Name:            req.Name,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		TrackInventory:  req.TrackInventory,
		InventoryItemID: req.InventoryItemID,
		IsActive:        true,
	}

	query := r.repository.GoquDBWrapper.Insert("menu_items").
		Rows(goqu.Record{
			"name":              req.Name,
			"price":             req.Price,
			"category_id":       req.CategoryID,
			"track_inventory":   req.TrackInventory,
			"inventory_item_id": req.InventoryItemID,
			"is_active":         true,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&item.ID); err != nil {
		return nil, fmt.Errorf("failed to insert menu item record: %w", err)
	}

	return &item, nil
}

func (r *MenuRepository) UpdateMenuItem(menuItemID int, req MenuItemRequest) (*models.MenuItem, error) {
	if err := validateLinkage(req); err != nil {
		return nil, err
	}

	var item models.MenuItem

	query := r.repository.GoquDBWrapper.
		Update("menu_items").
		Set(goqu.Record{
			"name":              req.Name,
			"price":             req.Price,
			"category_id":       req.CategoryID,
			"track_inventory":   req.TrackInventory,
			"inventory_item_id": req.InventoryItemID,
		}).
		Where(goqu.Ex{"id": menuItemID}).
		Returning(menuItemColumns...)

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item %d: %w", menuItemID, err)
	}
	if !found {
		return nil, apperrors.NewNotFound("menu item", "%d", menuItemID)
	}

	return &item, nil
}

func (r *MenuRepository) DeactivateMenuItem(menuItemID int) error {
	query := r.repository.GoquDBWrapper.
		Update("menu_items").
		Set(goqu.Record{"is_active": false}).
		Where(goqu.Ex{"id": menuItemID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to deactivate menu item %d: %w", menuItemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFound("menu item", "%d", menuItemID)
	}

	return nil
}

// Tracked items must point at an inventory item; otherwise the
// availability resolver would treat them as always sellable.
func validateLinkage(req MenuItemRequest) error {
	if req.TrackInventory && req.InventoryItemID == nil {
		return fmt.Errorf("menu item %q tracks inventory but has no linked inventory item", req.Name)
	}
	return nil
}
