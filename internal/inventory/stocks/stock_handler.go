package stocks

import (
	"errors"
	"net/http"
	"strconv"

	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/auditlog"
	"barpos/pkg/roles"
	"barpos/pkg/security"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	StockRepository *StockRepository
	AuditLog        *auditlog.Auditlog
}

func NewStockHandler(r *repository.Repository, a *auditlog.Auditlog) *StockHandler {
	return &StockHandler{
		StockRepository: NewRepository(r),
		AuditLog:        a,
	}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/bars/:id/stock", security.Authorize(roles.Cashier), h.ListBarStock)
	router.POST("/bars/:id/stock/movements", security.Authorize(roles.InventoryOfficer), h.CreateMovement)
	router.GET("/inventory/items/:id/movements", security.Authorize(roles.InventoryOfficer), h.ListMovements)
}

func (h *StockHandler) CreateMovement(c *gin.Context) {
	barID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bar ID"})
		return
	}

	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	var actorID *int
	if idStr, err := security.GetUserIDFromToken(c); err == nil {
		if id, err := strconv.Atoi(idStr); err == nil {
			actorID = &id
		}
	}

	stock, err := h.StockRepository.ApplyMovement(MovementRequest{
		BarID:           barID,
		InventoryItemID: req.InventoryItemID,
		Type:            req.Type,
		Quantity:        req.Quantity,
		ActorID:         actorID,
		Notes:           req.Notes,
	})
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		var conflict *apperrors.ConflictError
		if errors.As(err, &conflict) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply stock movement", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"stock_movement",
		map[string]interface{}{
			"bar_id":            stock.BarID,
			"inventory_item_id": stock.InventoryItemID,
			"movement_type":     req.Type,
			"quantity":          req.Quantity,
			"new_stock":         stock.CurrentStock,
		},
		stock,
	)

	c.JSON(http.StatusCreated, stock)
}

func (h *StockHandler) ListBarStock(c *gin.Context) {
	barID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bar ID"})
		return
	}

	details, err := h.StockRepository.ListBarStock(barID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bar stock"})
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid inventory item ID"})
		return
	}

	limit := uint(100)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil && parsed > 0 {
			limit = uint(parsed)
		}
	}

	movements, err := h.StockRepository.ListMovements(itemID, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock movements"})
		return
	}

	c.JSON(http.StatusOK, movements)
}
