package orders

import (
	"errors"
	"net/http"
	"strconv"

	"barpos/pkg/apperrors"
	"barpos/pkg/auditlog"
	"barpos/pkg/models"
	"barpos/pkg/security"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service  *OrderService
	orders   *OrderRepository
	AuditLog *auditlog.Auditlog
}

func NewOrderHandler(service *OrderService, orders *OrderRepository, auditLog *auditlog.Auditlog) *OrderHandler {
	return &OrderHandler{
		service:  service,
		orders:   orders,
		AuditLog: auditLog,
	}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/orders/checkout", h.CheckoutHandler)
	router.GET("/orders", h.GetActiveOrdersHandler)
	router.GET("/orders/:id", h.GetOrderHandler)
	router.PATCH("/orders/:id/status", h.UpdateOrderStatusHandler)
}

// CheckoutHandler turns a cart into a persisted order. A stock
// shortfall is reported as 409 with the per-item validation payload so
// the till can show the cashier exactly what ran out.
func (h *OrderHandler) CheckoutHandler(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	actorID := actorIDFromContext(c)

	order, validation, err := h.service.Checkout(req, actorID)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if order == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Insufficient stock for one or more items",
			"validation": validation,
		})
		return
	}

	go h.AuditLog.Log("order_created", map[string]interface{}{
		"order_number": order.OrderNumber,
		"bar_id":       req.BarID,
		"total_amount": order.TotalAmount,
	}, order)

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetActiveOrdersHandler(c *gin.Context) {
	var barID *int
	if raw := c.Query("bar_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bar_id parameter"})
			return
		}
		barID = &id
	}

	statuses := c.QueryArray("status")
	if len(statuses) == 0 {
		statuses = []string{models.OrderStatusPending, models.OrderStatusPreparing, models.OrderStatusReady}
	}

	orders, err := h.orders.GetActiveOrders(barID, statuses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrderHandler(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.orders.GetOrder(orderID)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateOrderStatusHandler(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	order, err := h.service.UpdateStatus(orderID, req.Status)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	go h.AuditLog.Log("order_status_changed", map[string]interface{}{
		"order_id": orderID,
		"status":   req.Status,
	}, order)

	c.JSON(http.StatusOK, order)
}

func actorIDFromContext(c *gin.Context) *int {
	idStr, err := security.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil
	}
	return &id
}
