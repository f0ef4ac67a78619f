package bars

import (
	"fmt"

	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type BarRepository struct {
	Repository *repository.Repository
}

func NewBarRepository(r *repository.Repository) *BarRepository {
	return &BarRepository{Repository: r}
}

func (r *BarRepository) GetBars() ([]models.Bar, error) {
	var bars = []models.Bar{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "details", "is_active").
		From("bars").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&bars); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return bars, nil
}

func (r *BarRepository) GetBar(barID int) (*models.Bar, error) {
	var bar models.Bar
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "details", "is_active").
		From("bars").
		Where(goqu.Ex{"id": barID})

	found, err := query.Executor().ScanStruct(&bar)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("bar", "%d", barID)
	}

	return &bar, nil
}

func (r *BarRepository) PersistBar(bar *models.Bar) error {
	query := r.Repository.GoquDBWrapper.Insert("bars").
		Rows(goqu.Record{
			"name":      bar.Name,
			"details":   bar.Details,
			"is_active": true,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&bar.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.WrapDBError("Bar name already in use", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert bar record: %w", err)
	}
	bar.IsActive = true

	return nil
}

func (r *BarRepository) UpdateBar(barID int, req UpdateBarRequest) (models.Bar, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return models.Bar{}, fmt.Errorf("no fields to update")
	}

	query := r.Repository.GoquDBWrapper.
		Update("bars").
		Set(updates).
		Where(goqu.Ex{"id": barID}).
		Returning("id", "name", "details", "is_active")

	var bar models.Bar
	found, err := query.Executor().ScanStruct(&bar)
	if err != nil {
		return models.Bar{}, fmt.Errorf("failed to update bar: %w", err)
	}
	if !found {
		return models.Bar{}, apperrors.NewNotFound("bar", "%d", barID)
	}

	return bar, nil
}

func (r *BarRepository) RemoveBar(barID int) error {
	result, err := r.Repository.GoquDBWrapper.
		Delete("bars").
		Where(goqu.Ex{"id": barID}).
		Executor().Exec()

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return apperrors.WrapDBError("Bar still has stock or orders attached", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete bar: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFound("bar", "%d", barID)
	}

	return nil
}
