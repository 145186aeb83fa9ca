package http

import (
	"errors"
	"net/http"
	"strings"

	"community-portal/internal/identity/repo/persistent"
	"community-portal/internal/identity/usecase"
	"community-portal/pkg/logger"
	"community-portal/pkg/models"

	"github.com/gin-gonic/gin"
)

type IdentityHandler struct {
	identity usecase.IdentityUseCase
	logger   *logger.Logger
}

func NewIdentityHandler(identity usecase.IdentityUseCase, logger *logger.Logger) *IdentityHandler {
	return &IdentityHandler{
		identity: identity,
		logger:   logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// Login godoc
// @Summary      Sign in
// @Description  Issues a bearer token. Without a configured database the demo accounts apply, and unknown credentials sign in as a guest-tier account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  usecase.Session
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *IdentityHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.identity.Login(req.Email, req.Password)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Register godoc
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "New account"
// @Success      201  {object}  usecase.Session
// @Failure      400  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *IdentityHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.identity.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, persistent.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "registration unavailable"})
			return
		}
		h.logger.Error("Registration failed for %s: %v", req.Email, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/logout [post]
func (h *IdentityHandler) Logout(c *gin.Context) {
	if err := h.identity.Logout(c.GetString("user_id")); err != nil {
		h.logger.Warn("Logout cleanup failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

// Me godoc
// @Summary      Current actor
// @Description  Resolves the caller to a user and role. Invalid or absent sessions resolve to the guest role instead of an error.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/me [get]
func (h *IdentityHandler) Me(c *gin.Context) {
	token := bearerToken(c)
	user, role := h.identity.Resolve(token)

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"role":        role,
		"permissions": models.PermissionsForRole(role),
	})
}

// UploadAvatar godoc
// @Summary      Upload a profile picture
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Image file (jpg or png)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /auth/avatar [post]
func (h *IdentityHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	url, err := h.identity.UploadAvatar(c.GetString("user_id"), file)
	if err != nil {
		if errors.Is(err, usecase.ErrMediaUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage unavailable"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

// ListUsers godoc
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /admin/users [get]
func (h *IdentityHandler) ListUsers(c *gin.Context) {
	users, err := h.identity.ListUsers()
	if err != nil {
		h.logger.Error("Failed to list users: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "account store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// UpdateUserRole godoc
// @Summary      Change an account's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Param        request body UpdateRoleRequest true "New role"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /admin/users/{id}/role [put]
func (h *IdentityHandler) UpdateUserRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	id := c.Param("id")
	if err := h.identity.UpdateRole(id, req.Role); err != nil {
		h.logger.Error("Failed to update role for %s: %v", id, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
}

// SetUserActive godoc
// @Summary      Activate or deactivate an account
// @Description  Deactivation keeps the record; the account just cannot sign in or act.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Param        request body SetActiveRequest true "Active flag"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /admin/users/{id}/active [put]
func (h *IdentityHandler) SetUserActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.identity.SetActive(id, *req.IsActive); err != nil {
		h.logger.Error("Failed to set active for %s: %v", id, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}

func (h *IdentityHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Sign-in failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
