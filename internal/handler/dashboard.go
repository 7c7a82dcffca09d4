package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/service"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db                *gorm.DB
	membershipService *service.MembershipService
}

func NewDashboardHandler(db *gorm.DB, membershipService *service.MembershipService) *DashboardHandler {
	return &DashboardHandler{db: db, membershipService: membershipService}
}

// GET /dashboard/overview
func (h *DashboardHandler) Overview(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)

	data := gin.H{}

	switch caller.Role {
	case model.RoleAdmin:
		var totalUsers, totalProjects, activeProjects int64
		h.db.Model(&model.User{}).Where("is_active = ?", true).Count(&totalUsers)
		h.db.Model(&model.Project{}).Count(&totalProjects)
		h.db.Model(&model.Project{}).Where("status = ?", model.StatusInProgress).Count(&activeProjects)
		data["total_users"] = totalUsers
		data["total_projects"] = totalProjects
		data["active_projects"] = activeProjects
	case model.RolePM:
		var managedProjects, managedActive int64
		h.db.Model(&model.Project{}).Where("pm_email = ?", caller.Email).Count(&managedProjects)
		h.db.Model(&model.Project{}).Where("pm_email = ? AND status = ?", caller.Email, model.StatusInProgress).Count(&managedActive)
		data["managed_projects"] = managedProjects
		data["managed_active_projects"] = managedActive
	default:
		workload, err := h.membershipService.TotalActiveWorkload(caller.ID)
		if err != nil {
			RespondError(c, err)
			return
		}
		projectCount, err := h.membershipService.ActiveProjectCount(caller.ID)
		if err != nil {
			RespondError(c, err)
			return
		}
		data["total_workload"] = workload
		data["active_projects"] = projectCount
	}

	var unread int64
	h.db.Model(&model.Notification{}).Where("user_id = ? AND is_read = ?", caller.ID, false).Count(&unread)
	data["unread_notifications"] = unread

	var recentLogs []model.WorkLog
	h.db.Preload("Project").
		Where("user_id = ?", caller.ID).
		Order("work_date desc, id desc").Limit(5).Find(&recentLogs)
	data["recent_work_logs"] = recentLogs

	Success(c, data)
}
