package items

import (
	"errors"
	"net/http"
	"strconv"

	"barpos/internal/inventory/stocks"
	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/auditlog"
	"barpos/pkg/models"
	"barpos/pkg/roles"
	"barpos/pkg/security"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	Repository ItemRepository
	AuditLog   *auditlog.Auditlog
	repo       *repository.Repository
}

func NewHandler(r *repository.Repository, a *auditlog.Auditlog) *ItemHandler {
	return &ItemHandler{
		Repository: NewRepository(r),
		AuditLog:   a,
		repo:       r,
	}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/inventory/items", h.GetItemsHandler)
	router.GET("/inventory/items/:id", h.GetItemHandler)
	router.GET("/inventory/low-stock", h.GetLowStockHandler)
	router.GET("/inventory/items/:id/history", security.Authorize(roles.InventoryOfficer), h.GetItemHistoryHandler)
	router.POST("/inventory/items", security.Authorize(roles.InventoryOfficer), h.CreateItemHandler)
	router.PATCH("/inventory/items/:id", security.Authorize(roles.InventoryOfficer), h.UpdateItemHandler)
	router.DELETE("/inventory/items/:id", security.Authorize(roles.Manager), h.DeactivateItemHandler)
}

func (h *ItemHandler) GetItemsHandler(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	items, err := h.Repository.GetItems(includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list inventory items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItemHandler(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.Repository.GetItem(itemID)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) GetLowStockHandler(c *gin.Context) {
	items, err := h.Repository.GetLowStockItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list low stock items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItemHistoryHandler(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	logs, err := h.repo.GetLogsForResource("inventory_item", itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list item history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *ItemHandler) CreateItemHandler(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	minStock := stocks.DefaultMinStockLevel
	if req.MinStock != nil {
		minStock = *req.MinStock
	}

	item := models.InventoryItem{
		Name:        req.Name,
		Category:    req.Category,
		Unit:        req.Unit,
		MinStock:    minStock,
		CostPerUnit: req.CostPerUnit,
		Supplier:    req.Supplier,
	}

	if err := h.Repository.PersistItem(&item); err != nil {
		var uniqueErr *apperrors.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Inventory item name already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not insert inventory item", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("inventory_item_created", map[string]interface{}{"name": item.Name}, &item)

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItemHandler(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	item, err := h.Repository.UpdateItem(itemID, req)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go h.AuditLog.Log("inventory_item_updated", map[string]interface{}{"item_id": itemID}, &item)

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeactivateItemHandler(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := h.Repository.DeactivateItem(itemID); err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate inventory item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deactivated"})
}
