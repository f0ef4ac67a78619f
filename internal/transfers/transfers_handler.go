package transfers

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
	"go.uber.org/zap"
)

type TransferHandler struct {
	service  *TransferService
	auditLog *auditlog.Auditlog
}

func NewHandler(r *repository.Repository, a *auditlog.Auditlog, logger *zap.Logger) *TransferHandler {
	service := NewService(r, NewRepository(r), stocks.NewRepository(r), logger)

	return &TransferHandler{
		service:  service,
		auditLog: a,
	}
}

func (h *TransferHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/transfers", security.Authorize(roles.InventoryOfficer), h.CreateTransfer)
	router.GET("/bars/:id/transfers", security.Authorize(roles.Cashier), h.ListTransfers)
	router.GET("/bars/:id/transfers/pending-count", security.Authorize(roles.Cashier), h.PendingCount)
	router.POST("/transfers/:id/accept", security.Authorize(roles.Cashier), h.AcceptTransfer)
	router.POST("/transfers/:id/cancel", security.Authorize(roles.InventoryOfficer), h.CancelTransfer)
	router.POST("/transfers/expire-overdue", security.Authorize(roles.Manager), h.ExpireOverdue)
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	var createdBy *int
	if idStr, err := security.GetUserIDFromToken(c); err == nil {
		if id, err := strconv.Atoi(idStr); err == nil {
			createdBy = &id
		}
	}

	transferID, err := h.service.CreateTransfer(req, createdBy)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to create transfer", "details": err.Error()})
		return
	}

	transfer, err := h.service.tr.GetTransfer(transferID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Transfer created but could not be fetched"})
		return
	}

	go h.auditLog.Log(
		"create",
		map[string]interface{}{
			"source_bar_id":      transfer.SourceBarID,
			"destination_bar_id": transfer.DestinationBarID,
			"inventory_item_id":  transfer.InventoryItemID,
			"quantity":           transfer.Quantity,
		},
		transfer,
	)

	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) ListTransfers(c *gin.Context) {
	barID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bar ID"})
		return
	}

	transfers, err := h.service.tr.GetTransfers(barID, c.Query("status"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transfers"})
		return
	}

	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) PendingCount(c *gin.Context) {
	barID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bar ID"})
		return
	}

	count, err := h.service.tr.CountPendingForDestination(barID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending transfers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *TransferHandler) AcceptTransfer(c *gin.Context) {
	h.resolveTransfer(c, h.service.AcceptTransfer, "accept")
}

func (h *TransferHandler) CancelTransfer(c *gin.Context) {
	h.resolveTransfer(c, h.service.CancelTransfer, "cancel")
}

func (h *TransferHandler) resolveTransfer(c *gin.Context, resolve func(int) (*models.Transfer, error), action string) {
	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer ID"})
		return
	}

	transfer, err := resolve(transferID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log(action, map[string]interface{}{"status": transfer.Status}, transfer)

	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) ExpireOverdue(c *gin.Context) {
	result, err := h.service.ExpireOverdueTransfers()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to run transfer expiry", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
