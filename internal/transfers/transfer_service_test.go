package transfers

import (
	"errors"
	"testing"
	"time"

	"barpos/pkg/apperrors"
	"barpos/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) InsertTransfer(tx *goqu.TxDatabase, req models.TransferRequest, createdBy *int) (int, error) {
	args := m.Called(tx, req, createdBy)
	return args.Int(0), args.Error(1)
}

func (m *MockTransferRepository) GetTransfer(transferID int) (*models.Transfer, error) {
	args := m.Called(transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) GetTransfers(barID int, status string) ([]models.Transfer, error) {
	args := m.Called(barID, status)
	return args.Get(0).([]models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) ListOverduePending(cutoff time.Time) ([]models.Transfer, error) {
	args := m.Called(cutoff)
	return args.Get(0).([]models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) MarkExpired(transferID int, notes string, completedAt time.Time) error {
	args := m.Called(transferID, notes, completedAt)
	return args.Error(0)
}

func (m *MockTransferRepository) SetStatus(tx *goqu.TxDatabase, transferID int, status string, completedAt time.Time) error {
	args := m.Called(tx, transferID, status, completedAt)
	return args.Error(0)
}

func (m *MockTransferRepository) CountPendingForDestination(barID int) (int, error) {
	args := m.Called(barID)
	return args.Int(0), args.Error(1)
}

type MockStockMover struct {
	mock.Mock
}

func (m *MockStockMover) RestoreStock(barID, inventoryItemID, quantity int) error {
	args := m.Called(barID, inventoryItemID, quantity)
	return args.Error(0)
}

func (m *MockStockMover) RestoreStockTx(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int) error {
	args := m.Called(tx, barID, inventoryItemID, quantity)
	return args.Error(0)
}

func (m *MockStockMover) DeductStock(tx *goqu.TxDatabase, barID, inventoryItemID, quantity int) error {
	args := m.Called(tx, barID, inventoryItemID, quantity)
	return args.Error(0)
}

func newTestService(tr TransferRepository, stocks StockMover) *TransferService {
	return &TransferService{
		tr:     tr,
		stocks: stocks,
		logger: zap.NewNop(),
	}
}

func pendingTransfer(id, sourceBar, itemID, quantity int, notes *string) models.Transfer {
	return models.Transfer{
		ID:               id,
		SourceBarID:      sourceBar,
		DestinationBarID: sourceBar + 1,
		InventoryItemID:  itemID,
		Quantity:         quantity,
		Status:           models.TransferStatusPending,
		Notes:            notes,
		CreatedAt:        time.Now().Add(-48 * time.Hour),
	}
}

func TestExpireOverdueTransfersNothingToDo(t *testing.T) {
	mockRepo := new(MockTransferRepository)
	mockStocks := new(MockStockMover)
	service := newTestService(mockRepo, mockStocks)

	mockRepo.On("ListOverduePending", mock.AnythingOfType("time.Time")).Return([]models.Transfer{}, nil).Once()

	result, err := service.ExpireOverdueTransfers()

	assert.NoError(t, err, "an empty batch is success, not an error")
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, result.Errors)

	mockStocks.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestExpireOverdueTransfersProcessesBatch(t *testing.T) {
	mockRepo := new(MockTransferRepository)
	mockStocks := new(MockStockMover)
	service := newTestService(mockRepo, mockStocks)

	notes := "keg swap"
	overdue := []models.Transfer{
		pendingTransfer(1, 10, 7, 5, nil),
		pendingTransfer(2, 11, 8, 3, &notes),
	}

	mockRepo.On("ListOverduePending", mock.AnythingOfType("time.Time")).Return(overdue, nil).Once()
	mockStocks.On("RestoreStock", 10, 7, 5).Return(nil).Once()
	mockStocks.On("RestoreStock", 11, 8, 3).Return(nil).Once()
	mockRepo.On("MarkExpired", 1, "Auto-expired after 24 hours", mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockRepo.On("MarkExpired", 2, "keg swap | Auto-expired after 24 hours", mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := service.ExpireOverdueTransfers()

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Processed)
	assert.Empty(t, result.Errors)

	mockRepo.AssertExpectations(t)
	mockStocks.AssertExpectations(t)
}

func TestExpireOverdueTransfersPartialFailureIsolation(t *testing.T) {
	mockRepo := new(MockTransferRepository)
	mockStocks := new(MockStockMover)
	service := newTestService(mockRepo, mockStocks)

	overdue := []models.Transfer{
		pendingTransfer(1, 10, 7, 5, nil),
		pendingTransfer(2, 11, 8, 3, nil),
		pendingTransfer(3, 12, 9, 2, nil),
	}

	mockRepo.On("ListOverduePending", mock.AnythingOfType("time.Time")).Return(overdue, nil).Once()
	mockStocks.On("RestoreStock", 10, 7, 5).Return(nil).Once()
	mockStocks.On("RestoreStock", 11, 8, 3).Return(errors.New("connection reset")).Once()
	mockStocks.On("RestoreStock", 12, 9, 2).Return(nil).Once()
	mockRepo.On("MarkExpired", 1, "Auto-expired after 24 hours", mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockRepo.On("MarkExpired", 3, "Auto-expired after 24 hours", mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := service.ExpireOverdueTransfers()

	assert.NoError(t, err, "per-transfer failures are collected, not propagated")
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Processed)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "transfer 2")

	// The failed transfer must stay pending for the next run.
	mockRepo.AssertNotCalled(t, "MarkExpired", 2, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
	mockStocks.AssertExpectations(t)
}

func TestExpireOverdueTransfersStatusUpdateFailureCollected(t *testing.T) {
	mockRepo := new(MockTransferRepository)
	mockStocks := new(MockStockMover)
	service := newTestService(mockRepo, mockStocks)

	overdue := []models.Transfer{pendingTransfer(1, 10, 7, 5, nil)}

	mockRepo.On("ListOverduePending", mock.AnythingOfType("time.Time")).Return(overdue, nil).Once()
	mockStocks.On("RestoreStock", 10, 7, 5).Return(nil).Once()
	mockRepo.On("MarkExpired", 1, "Auto-expired after 24 hours", mock.AnythingOfType("time.Time")).Return(errors.New("deadlock detected")).Once()

	result, err := service.ExpireOverdueTransfers()

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.Processed)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "transfer 1")

	mockRepo.AssertExpectations(t)
	mockStocks.AssertExpectations(t)
}

func TestExpireOverdueTransfersLostRaceNotCountedProcessed(t *testing.T) {
	mockRepo := new(MockTransferRepository)
	mockStocks := new(MockStockMover)
	service := newTestService(mockRepo, mockStocks)

	// Someone accepted the transfer between the overdue listing and the
	// guarded update, so MarkExpired matches no rows.
	overdue := []models.Transfer{pendingTransfer(1, 10, 7, 5, nil)}

	mockRepo.On("ListOverduePending", mock.AnythingOfType("time.Time")).Return(overdue, nil).Once()
	mockStocks.On("RestoreStock", 10, 7, 5).Return(nil).Once()
	mockRepo.On("MarkExpired", 1, "Auto-expired after 24 hours", mock.AnythingOfType("time.Time")).
		Return(apperrors.NewConflict("transfer %d is no longer pending", 1)).Once()

	result, err := service.ExpireOverdueTransfers()

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.Processed)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "transfer 1")

	mockRepo.AssertExpectations(t)
	mockStocks.AssertExpectations(t)
}

func TestCreateTransferRejectsSameBar(t *testing.T) {
	service := newTestService(new(MockTransferRepository), new(MockStockMover))

	_, err := service.CreateTransfer(models.TransferRequest{
		SourceBarID:      3,
		DestinationBarID: 3,
		InventoryItemID:  7,
		Quantity:         5,
	}, nil)

	assert.Error(t, err)
}
