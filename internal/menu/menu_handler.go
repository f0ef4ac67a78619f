package menu

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

type MenuHandler struct {
	Repository *MenuRepository
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r *repository.Repository, a *auditlog.Auditlog) *MenuHandler {
	return &MenuHandler{
		Repository: NewRepository(r),
		AuditLog:   a,
	}
}

func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/menu/items", security.Authorize(roles.Cashier), h.ListMenuItems)
	router.POST("/menu/items", security.Authorize(roles.Manager), h.CreateMenuItem)
	router.PATCH("/menu/items/:id", security.Authorize(roles.Manager), h.UpdateMenuItem)
	router.DELETE("/menu/items/:id", security.Authorize(roles.Manager), h.DeactivateMenuItem)
}

func (h *MenuHandler) ListMenuItems(c *gin.Context) {
	var categoryID *int
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		categoryID = &id
	}

	items, err := h.Repository.GetMenuItems(categoryID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.Repository.PersistMenuItem(req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to create menu item", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("create", map[string]interface{}{"name": item.Name}, item)

	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	menuItemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.Repository.UpdateMenuItem(menuItemID, req)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to update menu item", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("update", map[string]interface{}{"name": item.Name}, item)

	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeactivateMenuItem(c *gin.Context) {
	menuItemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	if err := h.Repository.DeactivateMenuItem(menuItemID); err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deactivated"})
}
