package users

import (
	"errors"
	"net/http"
	"strconv"

	"barpos/pkg/apperrors"
	"barpos/pkg/models"
	"barpos/pkg/roles"
	"barpos/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type UsersHandler struct {
	Repository UserRepository
}

func NewHandler(r UserRepository) *UsersHandler {
	return &UsersHandler{Repository: r}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", security.Authorize(roles.SuperAdmin), h.RegisterUser)
	router.PATCH("/users/:id", h.UpdateUser)
	router.GET("/users/:id", h.GetUser)
	router.GET("/users", security.Authorize(roles.Manager), h.GetUserList)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if !roles.Role(req.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + req.Role})
		return
	}
	if len(req.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.Repository.PersistUser(req, hashedPassword); err != nil {
		var uniqueErr *apperrors.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// UpdateUser lets staff change their own password; role changes need a
// super admin.
func (h *UsersHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if !h.isAllowed(c, userID, roles.SuperAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to modify this account"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	changes := make(map[string]interface{})

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < minPasswordLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		changes["password_hash"] = string(hashedPassword)
	}

	if req.Fullname != nil {
		changes["fullname"] = *req.Fullname
	}

	if req.Role != nil && *req.Role != user.Role {
		if !roles.Role(*req.Role).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + *req.Role})
			return
		}
		if !h.callerHasRole(c, roles.SuperAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only a super admin can change roles"})
			return
		}
		changes["role"] = *req.Role
	}

	if len(changes) == 0 {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(userID, changes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	updated, err := h.Repository.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if !h.isAllowed(c, userID, roles.Manager) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to access this resource"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		var notFoundErr *apperrors.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// isAllowed passes when the caller is the target user or holds the
// required role.
func (h *UsersHandler) isAllowed(c *gin.Context, userID int, required roles.Role) bool {
	idStr, err := security.GetUserIDFromToken(c)
	if err != nil {
		return false
	}
	authID, err := strconv.Atoi(idStr)
	if err != nil {
		return false
	}

	return authID == userID || h.callerHasRole(c, required)
}

func (h *UsersHandler) callerHasRole(c *gin.Context, required roles.Role) bool {
	role, exists := c.Get("role")
	if !exists {
		return false
	}
	roleStr, ok := role.(string)
	if !ok {
		return false
	}

	return roles.Role(roleStr).IsValid() && roles.Role(roleStr).HasPermission(required)
}
