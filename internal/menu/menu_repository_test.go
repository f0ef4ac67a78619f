package menu

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateLinkageRequiresInventoryItemWhenTracked(t *testing.T) {
	err := validateLinkage(MenuItemRequest{
		Name:           "Pint of Lager",
		Price:          decimal.NewFromFloat(6.50),
		TrackInventory: true,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no linked inventory item")
}

func TestValidateLinkageAcceptsTrackedWithLink(t *testing.T) {
	itemID := 42
	err := validateLinkage(MenuItemRequest{
		Name:            "Pint of Lager",
		Price:           decimal.NewFromFloat(6.50),
		TrackInventory:  true,
		InventoryItemID: &itemID,
	})

	assert.NoError(t, err)
}

func TestValidateLinkageAllowsUntrackedWithoutLink(t *testing.T) {
	assert.NoError(t, validateLinkage(MenuItemRequest{
		Name:  "Cocktail of the Day",
		Price: decimal.NewFromFloat(9.00),
	}))
}
