package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
)

type AuthHandler struct{ svc AuthService }

// RegisterRoutes mounts /auth/login for everyone and account management for admins.
func RegisterRoutes(r gin.IRoutes, svc AuthService, g Guard) {
	h := &AuthHandler{svc: svc}
	r.POST("/auth/login", h.Login)
	r.POST("/auth/accounts", g.Staff(), g.Admin(), h.Register)
	r.DELETE("/auth/accounts/:id", g.Staff(), g.Admin(), h.DeleteAccount)
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "id and password are required")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, Message: "Login successful"})
}

type RegisterRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty"` // 未指定なら staff
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "id and a password of at least 8 characters are required")
		return
	}

	err := h.svc.Register(c.Request.Context(), req.ID, req.Password, req.Role)
	switch {
	case errors.Is(err, ErrAlreadyExists):
		apierr.Write(c, apierr.ErrConflict("account already exists"))
		return
	case errors.Is(err, ErrBadRole):
		apierr.Write(c, apierr.ErrInvalid("role must be staff or admin"))
		return
	case err != nil:
		apierr.Write(c, err)
		return
	}

	c.Header("Location", "/auth/accounts/"+req.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			apierr.Write(c, apierr.ErrNotFound("account not found"))
			return
		}
		apierr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
