package transfers

import (
	"fmt"
	"time"

	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type TransferRepository interface {
	InsertTransfer(tx *goqu.TxDatabase, req models.TransferRequest, createdBy *int) (int, error)
	GetTransfer(transferID int) (*models.Transfer, error)
	GetTransfers(barID int, status string) ([]models.Transfer, error)
	ListOverduePending(cutoff time.Time) ([]models.Transfer, error)
	MarkExpired(transferID int, notes string, completedAt time.Time) error
	SetStatus(tx *goqu.TxDatabase, transferID int, status string, completedAt time.Time) error
	CountPendingForDestination(barID int) (int, error)
}

type transferRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) *transferRepository {
	return &transferRepository{Repo: r}
}

var transferColumns = []interface{}{
	"id", "source_bar_id", "destination_bar_id", "inventory_item_id",
	"quantity", "status", "notes", "created_by", "created_at", "completed_at",
}

func (r *transferRepository) InsertTransfer(tx *goqu.TxDatabase, req models.TransferRequest, createdBy *int) (int, error) {
	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	query := tx.Insert("bar_to_bar_transfers").
		Rows(goqu.Record{
			"source_bar_id":      req.SourceBarID,
			"destination_bar_id": req.DestinationBarID,
			"inventory_item_id":  req.InventoryItemID,
			"quantity":           req.Quantity,
			"status":             models.TransferStatusPending,
			"notes":              notes,
			"created_by":         createdBy,
		}).
		Returning("id")

	var transferID int
	if _, err := query.Executor().ScanVal(&transferID); err != nil {
		return 0, fmt.Errorf("failed to insert transfer record: %w", err)
	}

	return transferID, nil
}

func (r *transferRepository) GetTransfer(transferID int) (*models.Transfer, error) {
	var transfer models.Transfer

	query := r.Repo.GoquDBWrapper.
		Select(transferColumns...).
		From("bar_to_bar_transfers").
		Where(goqu.Ex{"id": transferID})

	found, err := query.Executor().ScanStruct(&transfer)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("transfer", "%d", transferID)
	}

	return &transfer, nil
}

// GetTransfers lists transfers touching one bar (as source or
// destination), optionally filtered by status.
func (r *transferRepository) GetTransfers(barID int, status string) ([]models.Transfer, error) {
	var transfers []models.Transfer

	query := r.Repo.GoquDBWrapper.
		Select(transferColumns...).
		From("bar_to_bar_transfers").
		Where(goqu.Or(
			goqu.C("source_bar_id").Eq(barID),
			goqu.C("destination_bar_id").Eq(barID),
		)).
		Order(goqu.I("created_at").Desc())

	if status != "" {
		query = query.Where(goqu.C("status").Eq(status))
	}

	if err := query.Executor().ScanStructs(&transfers); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return transfers, nil
}

func (r *transferRepository) ListOverduePending(cutoff time.Time) ([]models.Transfer, error) {
	var transfers []models.Transfer

	query := r.Repo.GoquDBWrapper.
		Select(transferColumns...).
		From("bar_to_bar_transfers").
		Where(goqu.C("status").Eq(models.TransferStatusPending)).
		Where(goqu.C("created_at").Lt(cutoff)).
		Order(goqu.I("created_at").Asc())

	if err := query.Executor().ScanStructs(&transfers); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for overdue transfers: %w", err)
	}

	return transfers, nil
}

// MarkExpired only touches rows still pending. Losing the guard to a
// concurrent run surfaces as a conflict so the caller does not count
// the transfer as processed.
func (r *transferRepository) MarkExpired(transferID int, notes string, completedAt time.Time) error {
	query := r.Repo.GoquDBWrapper.
		Update("bar_to_bar_transfers").
		Set(goqu.Record{
			"status":       models.TransferStatusExpired,
			"completed_at": completedAt,
			"updated_at":   goqu.L("NOW()"),
			"notes":        notes,
		}).
		Where(goqu.Ex{
			"id":     transferID,
			"status": models.TransferStatusPending,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to mark transfer %d expired: %w", transferID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for transfer %d: %w", transferID, err)
	}
	if rowsAffected == 0 {
		return apperrors.NewConflict("transfer %d is no longer pending", transferID)
	}

	return nil
}

func (r *transferRepository) SetStatus(tx *goqu.TxDatabase, transferID int, status string, completedAt time.Time) error {
	query := tx.Update("bar_to_bar_transfers").
		Set(goqu.Record{
			"status":       status,
			"completed_at": completedAt,
			"updated_at":   goqu.L("NOW()"),
		}).
		Where(goqu.Ex{
			"id":     transferID,
			"status": models.TransferStatusPending,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update transfer %d: %w", transferID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for transfer %d: %w", transferID, err)
	}
	if rowsAffected == 0 {
		return apperrors.NewConflict("transfer %d is no longer pending", transferID)
	}

	return nil
}

func (r *transferRepository) CountPendingForDestination(barID int) (int, error) {
	var count int

	query := r.Repo.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("bar_to_bar_transfers").
		Where(goqu.Ex{
			"destination_bar_id": barID,
			"status":             models.TransferStatusPending,
		})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending transfers: %w", err)
	}

	return count, nil
}
