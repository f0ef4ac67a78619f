package pos

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"barpos/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubMenuSource struct {
	items map[int]models.MenuItem
}

func (s *stubMenuSource) GetMenuItemMap() (map[int]models.MenuItem, error) {
	return s.items, nil
}

type stubStockSource struct {
	snapshot map[int]models.BarStock
}

func (s *stubStockSource) GetBarStock(barID int) (map[int]models.BarStock, error) {
	return s.snapshot, nil
}

func postAvailability(t *testing.T, handler *POSHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/pos/availability", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Availability(c)
	return recorder
}

func TestAvailabilityOrderedByMenuItemID(t *testing.T) {
	menuItems := make(map[int]models.MenuItem)
	snapshot := make(map[int]models.BarStock)
	for id := 1; id <= 12; id++ {
		menuItems[id] = trackedMenuItem(id, "Item", 100+id)
		snapshot[100+id] = models.BarStock{
			BarID:           1,
			InventoryItemID: 100 + id,
			CurrentStock:    10,
			MinStockLevel:   2,
		}
	}
	handler := NewHandler(&stubMenuSource{items: menuItems}, &stubStockSource{snapshot: snapshot})

	recorder := postAvailability(t, handler, `{"bar_id": 1, "cart": []}`)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var statuses []ItemStatus
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &statuses))
	assert.Len(t, statuses, 12)
	for i, status := range statuses {
		assert.Equal(t, i+1, status.MenuItemID, "statuses must come back sorted by menu item id")
	}
}

func TestAvailabilityRejectsMissingBar(t *testing.T) {
	handler := NewHandler(&stubMenuSource{items: map[int]models.MenuItem{}}, &stubStockSource{})

	recorder := postAvailability(t, handler, `{"cart": []}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
