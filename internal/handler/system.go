package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/model"
	"gorm.io/gorm"
)

const version = "1.0.0"

type SystemHandler struct {
	db *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// GET /system/health
func (h *SystemHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		InternalError(c, "database unreachable")
		return
	}
	Success(c, gin.H{"status": "ok"})
}

// GET /system/version
func (h *SystemHandler) Version(c *gin.Context) {
	Success(c, gin.H{"version": version})
}

// GET /lookup/roles
func (h *SystemHandler) Roles(c *gin.Context) {
	Success(c, model.Roles)
}

// GET /lookup/project-types
func (h *SystemHandler) ProjectTypes(c *gin.Context) {
	Success(c, model.ProjectTypes)
}

// GET /lookup/project-statuses
func (h *SystemHandler) ProjectStatuses(c *gin.Context) {
	Success(c, model.ProjectStatuses)
}
