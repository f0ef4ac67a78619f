package stocks

import (
	"testing"

	"barpos/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateMovementAcceptsKnownTypes(t *testing.T) {
	for _, movementType := range []models.MovementType{
		models.MovementIn,
		models.MovementOut,
		models.MovementAdjustment,
	} {
		err := validateMovement(MovementRequest{
			BarID:           1,
			InventoryItemID: 2,
			Type:            movementType,
			Quantity:        3,
		})
		assert.NoError(t, err, "type %s", movementType)
	}
}

func TestValidateMovementRejectsUnknownType(t *testing.T) {
	err := validateMovement(MovementRequest{Type: "restock", Quantity: 1})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown movement type")
}

func TestValidateMovementRejectsNonPositiveQuantity(t *testing.T) {
	for _, movementType := range []models.MovementType{models.MovementIn, models.MovementOut} {
		assert.Error(t, validateMovement(MovementRequest{Type: movementType, Quantity: 0}))
		assert.Error(t, validateMovement(MovementRequest{Type: movementType, Quantity: -4}))
	}
}

func TestValidateMovementAllowsZeroAdjustment(t *testing.T) {
	// Counting a shelf down to nothing is a legitimate correction.
	assert.NoError(t, validateMovement(MovementRequest{Type: models.MovementAdjustment, Quantity: 0}))
	assert.Error(t, validateMovement(MovementRequest{Type: models.MovementAdjustment, Quantity: -1}))
}

func TestMovementDelta(t *testing.T) {
	assert.Equal(t, 10, movementDelta(models.MovementIn, 10))
	assert.Equal(t, -10, movementDelta(models.MovementOut, 10))
}

func TestInMovementArithmetic(t *testing.T) {
	// Receiving 10 on a shelf holding 5: the update returns 15 and the
	// ledger row must read 5 -> 15.
	delta := movementDelta(models.MovementIn, 10)
	returnedStock := 5 + delta

	previous := previousFromReturned(returnedStock, delta)

	assert.Equal(t, 15, returnedStock)
	assert.Equal(t, 5, previous)
}

func TestOutMovementArithmetic(t *testing.T) {
	delta := movementDelta(models.MovementOut, 3)
	returnedStock := 5 + delta

	previous := previousFromReturned(returnedStock, delta)

	assert.Equal(t, 2, returnedStock)
	assert.Equal(t, 5, previous)
}

func TestMovementRecordFields(t *testing.T) {
	actorID := 7
	record := movementRecord(MovementRequest{
		BarID:           1,
		InventoryItemID: 42,
		Type:            models.MovementIn,
		Quantity:        10,
		ActorID:         &actorID,
		Notes:           "delivery",
	}, 5, 15)

	assert.Equal(t, 1, record["bar_id"])
	assert.Equal(t, 42, record["inventory_item_id"])
	assert.Equal(t, "in", record["movement_type"])
	assert.Equal(t, 10, record["quantity"])
	assert.Equal(t, 5, record["previous_stock"])
	assert.Equal(t, 15, record["new_stock"])
	assert.Equal(t, &actorID, record["created_by"])

	notes, ok := record["notes"].(*string)
	assert.True(t, ok)
	assert.Equal(t, "delivery", *notes)
}

func TestMovementRecordAdjustmentUsesReadPrevious(t *testing.T) {
	// Adjustments set an absolute count; previous comes from the read
	// the CAS guard was built on.
	record := movementRecord(MovementRequest{
		BarID:           1,
		InventoryItemID: 42,
		Type:            models.MovementAdjustment,
		Quantity:        8,
	}, 5, 8)

	assert.Equal(t, "adjustment", record["movement_type"])
	assert.Equal(t, 5, record["previous_stock"])
	assert.Equal(t, 8, record["new_stock"])
}

func TestMovementRecordOmitsEmptyNotes(t *testing.T) {
	record := movementRecord(MovementRequest{
		BarID:           1,
		InventoryItemID: 42,
		Type:            models.MovementOut,
		Quantity:        2,
	}, 5, 3)

	notes, ok := record["notes"].(*string)
	assert.True(t, ok)
	assert.Nil(t, notes)
}
