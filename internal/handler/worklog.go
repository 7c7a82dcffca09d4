package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/service"
	"github.com/shopspring/decimal"
)

type WorkLogHandler struct {
	workLogService *service.WorkLogService
}

func NewWorkLogHandler(workLogService *service.WorkLogService) *WorkLogHandler {
	return &WorkLogHandler{workLogService: workLogService}
}

type workLogRequest struct {
	ProjectID       uint            `json:"project_id"`
	WorkDate        string          `json:"work_date" binding:"required"`
	HoursWorked     decimal.Decimal `json:"hours_worked" binding:"required"`
	TaskFeature     string          `json:"task_feature" binding:"max=255"`
	WorkDescription string          `json:"work_description" binding:"max=5000"`
}

// POST /work-logs
func (h *WorkLogHandler) Create(c *gin.Context) {
	var req workLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	if req.ProjectID == 0 {
		BadRequest(c, 40001, "project_id is required")
		return
	}
	workDate, err := parseDate(req.WorkDate)
	if err != nil {
		BadRequest(c, 40001, "invalid work_date, expected YYYY-MM-DD")
		return
	}

	caller := middleware.GetCurrentUser(c)
	entry, err := h.workLogService.Create(caller, service.WorkLogInput{
		ProjectID:       req.ProjectID,
		WorkDate:        workDate,
		HoursWorked:     req.HoursWorked,
		TaskFeature:     req.TaskFeature,
		WorkDescription: req.WorkDescription,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, entry)
}

// PUT /work-logs/:id
func (h *WorkLogHandler) Update(c *gin.Context) {
	var req workLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	workDate, err := parseDate(req.WorkDate)
	if err != nil {
		BadRequest(c, 40001, "invalid work_date, expected YYYY-MM-DD")
		return
	}

	caller := middleware.GetCurrentUser(c)
	entry, err := h.workLogService.Update(caller, parseID(c.Param("id")), service.WorkLogInput{
		WorkDate:        workDate,
		HoursWorked:     req.HoursWorked,
		TaskFeature:     req.TaskFeature,
		WorkDescription: req.WorkDescription,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, entry)
}

// DELETE /work-logs/:id
func (h *WorkLogHandler) Delete(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	if err := h.workLogService.Delete(caller, parseID(c.Param("id"))); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "work log deleted"})
}

// GET /work-logs
func (h *WorkLogHandler) List(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	entries, err := h.workLogService.ListForCaller(caller)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, entries)
}

// GET /work-logs/user/:user_id
func (h *WorkLogHandler) ListForUser(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	entries, err := h.workLogService.ListForUser(caller, parseID(c.Param("user_id")))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, entries)
}

// GET /work-logs/project/:project_id
func (h *WorkLogHandler) ListForProject(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	entries, err := h.workLogService.ListForProject(caller, parseID(c.Param("project_id")))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, entries)
}
