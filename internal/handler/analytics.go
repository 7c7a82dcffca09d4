package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GET /analytics/projects
func (h *AnalyticsHandler) Projects(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	analytics, err := h.analyticsService.ProjectRollup(caller)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, analytics)
}

// GET /analytics/employees
func (h *AnalyticsHandler) Employees(c *gin.Context) {
	analytics, err := h.analyticsService.EmployeeRollup()
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, analytics)
}

// GET /analytics/workload
func (h *AnalyticsHandler) Workload(c *gin.Context) {
	analytics, err := h.analyticsService.WorkloadRollup()
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, analytics)
}

// GET /analytics/project/:id/timeline
func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	timeline, err := h.analyticsService.Timeline(caller, parseID(c.Param("id")))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, timeline)
}
