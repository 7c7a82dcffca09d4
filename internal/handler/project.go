package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type projectRequest struct {
	ProjectCode string `json:"project_code" binding:"required,max=32"`
	ProjectName string `json:"project_name" binding:"required,max=128"`
	Description string `json:"description" binding:"max=5000"`
	PMEmail     string `json:"pm_email" binding:"required,email"`
	ProjectType string `json:"project_type" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
}

func (r *projectRequest) toInput() (service.ProjectInput, error) {
	startDate, err := parseDate(r.StartDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	endDate, err := parseDatePtr(r.EndDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	return service.ProjectInput{
		ProjectCode: r.ProjectCode,
		ProjectName: r.ProjectName,
		Description: r.Description,
		PMEmail:     r.PMEmail,
		ProjectType: model.ProjectType(r.ProjectType),
		StartDate:   startDate,
		EndDate:     endDate,
	}, nil
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		BadRequest(c, 40001, "invalid date, expected YYYY-MM-DD")
		return
	}

	caller := middleware.GetCurrentUser(c)
	project, err := h.projectService.Create(input, caller.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, project)
}

// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	caller := middleware.GetCurrentUser(c)
	projects, total, err := h.projectService.List(
		caller,
		c.Query("keyword"),
		model.ProjectStatus(c.Query("status")),
		page, pageSize,
	)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessPaged(c, projects, total, page, pageSize)
}

// GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	caller := middleware.GetCurrentUser(c)
	project, err := h.projectService.Get(caller, parseID(c.Param("id")))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, project)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		BadRequest(c, 40001, "invalid date, expected YYYY-MM-DD")
		return
	}

	project, err := h.projectService.Update(parseID(c.Param("id")), input)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, project)
}

// PUT /projects/:id/status
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	project, err := h.projectService.ChangeStatus(parseID(c.Param("id")), model.ProjectStatus(req.Status))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, project)
}

// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(parseID(c.Param("id"))); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "project deleted"})
}
