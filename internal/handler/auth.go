package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	user, token, expireAt, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if apperr.IsAuthorization(err) {
			e, _ := apperr.From(err)
			Unauthorized(c, 40101, e.Message)
			return
		}
		RespondError(c, err)
		return
	}

	Success(c, gin.H{
		"token":      token,
		"expires_at": expireAt,
		"user":       user.Brief(),
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims != nil {
		if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
			RespondError(c, err)
			return
		}
	}
	Success(c, gin.H{"message": "logged out"})
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims := middleware.GetClaims(c)
	token, expireAt, err := h.authService.Refresh(c.Request.Context(), claims)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"token":      token,
		"expires_at": expireAt,
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	Success(c, middleware.GetCurrentUser(c))
}
