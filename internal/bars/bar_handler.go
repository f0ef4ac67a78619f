package bars

import (
	"errors"
	"net/http"
	"strconv"

	"barpos/internal/repository"
	"barpos/pkg/apperrors"
	"barpos/pkg/auditlog"
	"barpos/pkg/models"
	"barpos/pkg/roles"
	"barpos/pkg/security"

	"github.com/gin-gonic/gin"
)

type UpdateBarRequest struct {
	Name     *string `json:"name"`
	Details  *string `json:"details"`
	IsActive *bool   `json:"is_active"`
}

type BarHandler struct {
	Repository *BarRepository
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r *repository.Repository, a *auditlog.Auditlog) *BarHandler {
	return &BarHandler{
		Repository: NewBarRepository(r),
		AuditLog:   a,
	}
}

func (h *BarHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/bars", h.GetBarsHandler)
	router.GET("/bars/:id", h.GetBarHandler)
	router.POST("/bars", security.Authorize(roles.Manager), h.CreateBarHandler)
	router.PATCH("/bars/:id", security.Authorize(roles.Manager), h.UpdateBarHandler)
	router.DELETE("/bars/:id", security.Authorize(roles.SuperAdmin), h.RemoveBarHandler)
}

func (h *BarHandler) GetBarsHandler(c *gin.Context) {
	bars, err := h.Repository.GetBars()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list bars", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bars)
}

func (h *BarHandler) GetBarHandler(c *gin.Context) {
	barID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bar ID"})
		return
	}

	bar, err := h.Repository.GetBar(barID)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bar)
}

func (h *BarHandler) CreateBarHandler(c *gin.Context) {
	var bar models.Bar
	if err := c.ShouldBindJSON(&bar); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if err := h.Repository.PersistBar(&bar); err != nil {
		var uniqueErr *apperrors.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bar name already in use", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not insert bar"})
		return
	}

	go h.AuditLog.Log("bar_created", map[string]interface{}{"name": bar.Name}, &bar)

	c.JSON(http.StatusCreated, bar)
}

func (h *BarHandler) UpdateBarHandler(c *gin.Context) {
	barID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bar ID"})
		return
	}

	var req UpdateBarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	bar, err := h.Repository.UpdateBar(barID, req)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go h.AuditLog.Log("bar_updated", map[string]interface{}{"bar_id": barID}, &bar)

	c.JSON(http.StatusOK, bar)
}

func (h *BarHandler) RemoveBarHandler(c *gin.Context) {
	barID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bar ID"})
		return
	}

	if err := h.Repository.RemoveBar(barID); err != nil {
		var fkErr *apperrors.ForeignKeyViolationError
		var notFoundErr *apperrors.NotFoundError
		switch {
		case errors.As(err, &fkErr):
			c.JSON(http.StatusConflict, gin.H{"error": "Could not delete bar", "details": err.Error()})
		case errors.As(err, &notFoundErr):
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete bar", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bar deleted successfully"})
}
