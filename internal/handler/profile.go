package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GET /profile
func (h *ProfileHandler) Get(c *gin.Context) {
	Success(c, middleware.GetCurrentUser(c))
}

// PUT /profile/photo
func (h *ProfileHandler) UpdatePhoto(c *gin.Context) {
	var req struct {
		ProfilePhotoURL string `json:"profile_photo_url" binding:"required,max=512"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	caller := middleware.GetCurrentUser(c)
	if err := h.profileService.UpdatePhoto(caller, req.ProfilePhotoURL); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, caller)
}

// DELETE /profile/photo
func (h *ProfileHandler) RemovePhoto(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	if err := h.profileService.RemovePhoto(caller); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "profile photo removed"})
}

// PUT /profile/password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	caller := middleware.GetCurrentUser(c)
	if err := h.profileService.ChangePassword(caller, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "password changed"})
}
