package stocks

import (
	"fmt"

	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Rows created implicitly by RestoreStock get this threshold until
// staff set a real one.
const DefaultMinStockLevel = 5

type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

// ApplyMovement records one stock movement and updates the bar stock
// row in a single transaction. The (bar, item) row must already exist.
// An "out" movement may drive current_stock below zero: shrinkage and
// breakage adjustments legitimately do that between stock takes, and
// overselling is prevented at checkout, not here.
func (r *StockRepository) ApplyMovement(req MovementRequest) (*models.BarStock, error) {
	var stock *models.BarStock

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		stock, err = r.ApplyMovementTx(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return stock, nil
}

func (r *StockRepository) ApplyMovementTx(tx *goqu.TxDatabase, req MovementRequest) (*models.BarStock, error) {
	if err := validateMovement(req); err != nil {
		return nil, err
	}

	var row models.BarStock
	var previousStock int

	switch req.Type {
	case models.MovementIn, models.MovementOut:
		delta := movementDelta(req.Type, req.Quantity)

		found, err := tx.Update("bar_inventory").
			Set(goqu.Record{
				"current_stock": goqu.L("current_stock + ?", delta),
				"updated_at":    goqu.L("NOW()"),
			}).
			Where(goqu.Ex{
				"bar_id":            req.BarID,
				"inventory_item_id": req.InventoryItemID,
			}).
			Returning("id", "bar_id", "inventory_item_id", "current_stock", "min_stock_level").
			Executor().ScanStruct(&row)
		if err != nil {
			return nil, fmt.Errorf("failed to update bar stock: %w", err)
		}
		if !found {
			return nil, apperrors.NewNotFound("bar stock", "bar %d, inventory item %d", req.BarID, req.InventoryItemID)
		}

		previousStock = previousFromReturned(row.CurrentStock, delta)

	case models.MovementAdjustment:
		found, err := tx.Select("current_stock").
			From("bar_inventory").
			Where(goqu.Ex{
				"bar_id":            req.BarID,
				"inventory_item_id": req.InventoryItemID,
			}).
			Executor().ScanVal(&previousStock)
		if err != nil {
			return nil, fmt.Errorf("failed to read bar stock: %w", err)
		}
		if !found {
			return nil, apperrors.NewNotFound("bar stock", "bar %d, inventory item %d", req.BarID, req.InventoryItemID)
		}

		// Guarded on the value just read; a concurrent writer makes the
		// update match nothing instead of silently losing its change.
		found, err = tx.Update("bar_inventory").
			Set(goqu.Record{
				"current_stock": req.Quantity,
				"updated_at":    goqu.L("NOW()"),
			}).
			Where(goqu.Ex{
				"bar_id":            req.BarID,
				"inventory_item_id": req.InventoryItemID,
			}).
			Where(goqu.C("current_stock").Eq(previousStock)).
			Returning("id", "bar_id", "inventory_item_id", "current_stock", "min_stock_level").
			Executor().ScanStruct(&row)
		if err != nil {
			return nil, fmt.Errorf("failed to adjust bar stock: %w", err)
		}
		if !found {
			return nil, apperrors.NewConflict("bar stock for bar %d, inventory item %d changed concurrently", req.BarID, req.InventoryItemID)
		}
	}

	insert := tx.Insert("stock_movements").
		Rows(movementRecord(req, previousStock, row.CurrentStock))

	if _, err := insert.Executor().Exec(); err != nil {
		return nil, fmt.Errorf("failed to insert stock movement record: %w", err)
	}

	return &row, nil
}

// movementDelta is the signed stock change for in/out movements.
func movementDelta(movementType models.MovementType, quantity int) int {
	if movementType == models.MovementOut {
		return -quantity
	}
	return quantity
}

// previousFromReturned recovers the pre-movement stock from the value
// the atomic update returned, so the ledger row needs no extra read.
func previousFromReturned(newStock, delta int) int {
	return newStock - delta
}

// movementRecord assembles the immutable ledger row.
func movementRecord(req MovementRequest, previousStock, newStock int) goqu.Record {
	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	return goqu.Record{
		"bar_id":            req.BarID,
		"inventory_item_id": req.InventoryItemID,
		"movement_type":     string(req.Type),
		"quantity":          req.Quantity,
		"previous_stock":    previousStock,
		"new_stock":         newStock,
		"notes":             notes,
		"created_by":        req.ActorID,
	}
}

// ApplyMovementOut is the checkout-facing shorthand for an "out"
// movement inside a caller-owned transaction.
func (r *StockRepository) ApplyMovementOut(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int, actorID *int, notes string) (*models.BarStock, error) {
	return r.ApplyMovementTx(tx, MovementRequest{
		BarID:           barID,
		InventoryItemID: inventoryItemID,
		Type:            models.MovementOut,
		Quantity:        quantity,
		ActorID:         actorID,
		Notes:           notes,
	})
}

// RestoreStock adds quantity back to a (bar, item) row, creating the
// row when it does not exist. One upsert with a quantity merge; a plain
// upsert would clobber a non-zero row instead of adding to it.
func (r *StockRepository) RestoreStock(barID, inventoryItemID, quantity int) error {
	query := r.repository.GoquDBWrapper.Insert("bar_inventory").
		Rows(goqu.Record{
			"bar_id":            barID,
			"inventory_item_id": inventoryItemID,
			"current_stock":     quantity,
			"min_stock_level":   DefaultMinStockLevel,
		}).
		OnConflict(
			goqu.DoUpdate(
				"bar_id, inventory_item_id",
				goqu.Record{
					"current_stock": goqu.L("bar_inventory.current_stock + EXCLUDED.current_stock"),
					"updated_at":    goqu.L("NOW()"),
				},
			),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to restore stock for bar %d, inventory item %d: %w", barID, inventoryItemID, err)
	}

	return nil
}

// RestoreStockTx is RestoreStock inside a caller-owned transaction,
// used when accepting a transfer at the destination bar.
func (r *StockRepository) RestoreStockTx(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int) error {
	query := tx.Insert("bar_inventory").
		Rows(goqu.Record{
			"bar_id":            barID,
			"inventory_item_id": inventoryItemID,
			"current_stock":     quantity,
			"min_stock_level":   DefaultMinStockLevel,
		}).
		OnConflict(
			goqu.DoUpdate(
				"bar_id, inventory_item_id",
				goqu.Record{
					"current_stock": goqu.L("bar_inventory.current_stock + EXCLUDED.current_stock"),
					"updated_at":    goqu.L("NOW()"),
				},
			),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to restore stock for bar %d, inventory item %d: %w", barID, inventoryItemID, err)
	}

	return nil
}

// DeductStock decreases a (bar, item) row only when enough stock is
// present. Used when a transfer leaves the source bar.
func (r *StockRepository) DeductStock(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int) error {
	updateQuery := tx.Update("bar_inventory").
		Set(goqu.Record{
			"current_stock": goqu.L("current_stock - ?", quantity),
			"updated_at":    goqu.L("NOW()"),
		}).
		Where(goqu.Ex{
			"bar_id":            barID,
			"inventory_item_id": inventoryItemID,
		}).
		Where(goqu.C("current_stock").Gte(quantity))

	result, err := updateQuery.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to deduct stock for inventory item %d at bar %d: %w", inventoryItemID, barID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for inventory item %d: %w", inventoryItemID, err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("insufficient stock for inventory item %d at bar %d", inventoryItemID, barID)
	}

	return nil
}

// GetBarStock returns the stock snapshot for one bar keyed by
// inventory item id. This is the input the availability resolver reads.
func (r *StockRepository) GetBarStock(barID int) (map[int]models.BarStock, error) {
	var rows []models.BarStock

	query := r.repository.GoquDBWrapper.
		Select("id", "bar_id", "inventory_item_id", "current_stock", "min_stock_level").
		From("bar_inventory").
		Where(goqu.Ex{
			"bar_id":    barID,
			"is_active": true,
		})

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for bar stock: %w", err)
	}

	snapshot := make(map[int]models.BarStock, len(rows))
	for _, row := range rows {
		snapshot[row.InventoryItemID] = row
	}

	return snapshot, nil
}

type BarStockDetail struct {
	InventoryItemID int    `json:"inventory_item_id" db:"inventory_item_id"`
	Name            string `json:"name" db:"name"`
	Unit            string `json:"unit" db:"unit"`
	CurrentStock    int    `json:"current_stock" db:"current_stock"`
	MinStockLevel   int    `json:"min_stock_level" db:"min_stock_level"`
}

// ListBarStock is the cashier inventory view: stock rows joined with
// catalog names.
func (r *StockRepository) ListBarStock(barID int) ([]BarStockDetail, error) {
	var details []BarStockDetail

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("bi.inventory_item_id").As("inventory_item_id"),
			goqu.I("ii.name").As("name"),
			goqu.I("ii.unit").As("unit"),
			goqu.I("bi.current_stock").As("current_stock"),
			goqu.I("bi.min_stock_level").As("min_stock_level"),
		).
		From(goqu.T("bar_inventory").As("bi")).
		LeftJoin(
			goqu.T("inventory_items").As("ii"),
			goqu.On(goqu.Ex{"bi.inventory_item_id": goqu.I("ii.id")}),
		).
		Where(goqu.Ex{
			"bi.bar_id":    barID,
			"bi.is_active": true,
		}).
		Order(goqu.I("ii.name").Asc())

	if err := query.Executor().ScanStructs(&details); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for bar stock listing: %w", err)
	}

	return details, nil
}

func (r *StockRepository) ListMovements(inventoryItemID int, limit uint) ([]models.StockMovement, error) {
	var movements []models.StockMovement

	query := r.repository.GoquDBWrapper.
		Select("id", "bar_id", "inventory_item_id", "movement_type", "quantity",
			"previous_stock", "new_stock", "notes", "created_by", "created_at").
		From("stock_movements").
		Where(goqu.Ex{"inventory_item_id": inventoryItemID}).
		Order(goqu.I("created_at").Desc()).
		Limit(limit)

	if err := query.Executor().ScanStructs(&movements); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock movements: %w", err)
	}

	return movements, nil
}

func validateMovement(req MovementRequest) error {
	if !req.Type.IsValid() {
		return fmt.Errorf("unknown movement type %q", req.Type)
	}

	switch req.Type {
	case models.MovementIn, models.MovementOut:
		if req.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive for %s movements, got %d", req.Type, req.Quantity)
		}
	case models.MovementAdjustment:
		if req.Quantity < 0 {
			return fmt.Errorf("adjustment target cannot be negative, got %d", req.Quantity)
		}
	}

	return nil
}
