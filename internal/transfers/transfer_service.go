package transfers

import (
	"fmt"
	"time"

	"barpos/internal/repository"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// TransferExpiryWindow is how long a transfer may sit pending before
// the reconciler returns its stock to the source bar.
const TransferExpiryWindow = 24 * time.Hour

const expiryNote = "Auto-expired after 24 hours"

// StockMover is the slice of the stock ledger the transfer flow needs.
type StockMover interface {
	RestoreStock(barID, inventoryItemID, quantity int) error
	RestoreStockTx(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int) error
	DeductStock(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int) error
}

type TransferService struct {
	r      *repository.Repository
	tr     TransferRepository
	stocks StockMover
	logger *zap.Logger
}

func NewService(r *repository.Repository, tr TransferRepository, stocks StockMover, logger *zap.Logger) *TransferService {
	return &TransferService{
		r:      r,
		tr:     tr,
		stocks: stocks,
		logger: logger,
	}
}

// CreateTransfer deducts the quantity from the source bar and records a
// pending transfer, atomically. Insufficient source stock rejects the
// whole request.
func (s *TransferService) CreateTransfer(req models.TransferRequest, createdBy *int) (int, error) {
	if req.SourceBarID == req.DestinationBarID {
		return 0, fmt.Errorf("source and destination bars must differ")
	}

	var transferID int

	err := repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if err := s.stocks.DeductStock(tx, req.SourceBarID, req.InventoryItemID, req.Quantity); err != nil {
			return err
		}

		var err error
		if transferID, err = s.tr.InsertTransfer(tx, req, createdBy); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return transferID, nil
}

// AcceptTransfer completes a pending transfer and credits the
// destination bar's stock.
func (s *TransferService) AcceptTransfer(transferID int) (*models.Transfer, error) {
	transfer, err := s.tr.GetTransfer(transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferStatusPending {
		return nil, fmt.Errorf("transfer %d is %s and cannot be accepted", transferID, transfer.Status)
	}

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if err := s.tr.SetStatus(tx, transferID, models.TransferStatusCompleted, time.Now()); err != nil {
			return err
		}

		return s.stocks.RestoreStockTx(tx, transfer.DestinationBarID, transfer.InventoryItemID, transfer.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return s.tr.GetTransfer(transferID)
}

// CancelTransfer returns the quantity to the source bar and marks the
// transfer cancelled.
func (s *TransferService) CancelTransfer(transferID int) (*models.Transfer, error) {
	transfer, err := s.tr.GetTransfer(transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferStatusPending {
		return nil, fmt.Errorf("transfer %d is %s and cannot be cancelled", transferID, transfer.Status)
	}

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if err := s.tr.SetStatus(tx, transferID, models.TransferStatusCancelled, time.Now()); err != nil {
			return err
		}

		return s.stocks.RestoreStockTx(tx, transfer.SourceBarID, transfer.InventoryItemID, transfer.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return s.tr.GetTransfer(transferID)
}

type ExpiryResult struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}

// ExpireOverdueTransfers resolves transfers stuck pending past the
// expiry window: stock goes back to the source bar and the transfer is
// marked expired with an audit note appended. Each transfer is handled
// independently; failures are collected, never propagated, so one bad
// row cannot stall the batch. The run is idempotent for the common
// case because expired rows no longer match the pending filter.
func (s *TransferService) ExpireOverdueTransfers() (*ExpiryResult, error) {
	cutoff := time.Now().Add(-TransferExpiryWindow)

	overdue, err := s.tr.ListOverduePending(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overdue transfers: %w", err)
	}

	result := &ExpiryResult{
		Total:  len(overdue),
		Errors: []string{},
	}

	if len(overdue) == 0 {
		s.logger.Info("No overdue transfers to expire")
		return result, nil
	}

	for _, transfer := range overdue {
		if err := s.stocks.RestoreStock(transfer.SourceBarID, transfer.InventoryItemID, transfer.Quantity); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to restore stock for transfer %d: %v", transfer.ID, err))
			continue
		}

		notes := expiryNote
		if transfer.Notes != nil && *transfer.Notes != "" {
			notes = *transfer.Notes + " | " + expiryNote
		}

		if err := s.tr.MarkExpired(transfer.ID, notes, time.Now()); err != nil {
			// Stock is already restored; the row stays pending and the next
			// run restores it again.
			s.logger.Error("transfer stock restored but status update failed",
				zap.Int("transfer_id", transfer.ID), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("failed to mark transfer %d expired: %v", transfer.ID, err))
			continue
		}

		result.Processed++
	}

	s.logger.Info("Transfer expiry reconciliation finished",
		zap.Int("total", result.Total),
		zap.Int("processed", result.Processed),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}
