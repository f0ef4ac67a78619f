package pos

import (
	"net/http"
	"sort"

	"barpos/pkg/models"
	"barpos/pkg/roles"
	"barpos/pkg/security"

	"github.com/gin-gonic/gin"
)

type MenuSource interface {
	GetMenuItemMap() (map[int]models.MenuItem, error)
}

type StockSource interface {
	GetBarStock(barID int) (map[int]models.BarStock, error)
}

type POSHandler struct {
	menu   MenuSource
	stocks StockSource
}

func NewHandler(menu MenuSource, stocks StockSource) *POSHandler {
	return &POSHandler{
		menu:   menu,
		stocks: stocks,
	}
}

func (h *POSHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/pos/availability", security.Authorize(roles.Cashier), h.Availability)
	router.POST("/pos/cart/validate", security.Authorize(roles.Cashier), h.ValidateCart)
}

type cartRequest struct {
	BarID int               `json:"bar_id" binding:"required"`
	Cart  []models.CartLine `json:"cart"`
}

func (h *POSHandler) loadInputs(c *gin.Context) (cartRequest, map[int]models.MenuItem, StockSnapshot, bool) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return req, nil, nil, false
	}

	menuItems, err := h.menu.GetMenuItemMap()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu items"})
		return req, nil, nil, false
	}

	snapshot, err := h.stocks.GetBarStock(req.BarID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bar stock"})
		return req, nil, nil, false
	}

	return req, menuItems, snapshot, true
}

// Availability returns the per-item status for every active menu item,
// with the request's cart already reserved against the snapshot. The
// client renders badges from this; it does no stock math of its own.
func (h *POSHandler) Availability(c *gin.Context) {
	req, menuItems, snapshot, ok := h.loadInputs(c)
	if !ok {
		return
	}

	statuses := make([]ItemStatus, 0, len(menuItems))
	for _, item := range menuItems {
		statuses = append(statuses, ResolveItemStatus(item, snapshot, CartQuantityFor(req.Cart, item.ID)))
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].MenuItemID < statuses[j].MenuItemID
	})

	c.JSON(http.StatusOK, statuses)
}

// ValidateCart is called both before enabling checkout and again at
// submission, as a guard against stale client state.
func (h *POSHandler) ValidateCart(c *gin.Context) {
	req, menuItems, snapshot, ok := h.loadInputs(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ValidateCart(req.Cart, menuItems, snapshot))
}
