package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		EmployeeCode string `json:"employee_code" binding:"required,max=32"`
		FullName     string `json:"full_name" binding:"required,max=128"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=6"`
		Role         string `json:"role" binding:"required"`
		Gender       string `json:"gender"`
		DateOfBirth  string `json:"date_of_birth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	dateOfBirth, err := parseDatePtr(req.DateOfBirth)
	if err != nil {
		BadRequest(c, 40001, "invalid date_of_birth, expected YYYY-MM-DD")
		return
	}

	caller := middleware.GetCurrentUser(c)
	user, err := h.userService.Create(service.UserInput{
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     req.Password,
		Role:         model.Role(req.Role),
		Gender:       req.Gender,
		DateOfBirth:  dateOfBirth,
	}, caller.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	users, total, err := h.userService.List(
		c.Query("keyword"),
		model.Role(c.Query("role")),
		c.Query("active") == "true",
		page, pageSize,
	)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessPaged(c, users, total, page, pageSize)
}

// GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(parseID(c.Param("id")))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req struct {
		FullName    string `json:"full_name" binding:"required,max=128"`
		Gender      string `json:"gender"`
		DateOfBirth string `json:"date_of_birth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	dateOfBirth, err := parseDatePtr(req.DateOfBirth)
	if err != nil {
		BadRequest(c, 40001, "invalid date_of_birth, expected YYYY-MM-DD")
		return
	}

	user, err := h.userService.Update(parseID(c.Param("id")), req.FullName, req.Gender, dateOfBirth)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// PUT /users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	user, err := h.userService.ChangeRole(parseID(c.Param("id")), model.Role(req.Role))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// PUT /users/:id/activate
func (h *UserHandler) SetActive(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	user, err := h.userService.SetActive(parseID(c.Param("id")), *req.IsActive)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// DELETE /users/:id deactivates rather than removes the account.
func (h *UserHandler) Deactivate(c *gin.Context) {
	user, err := h.userService.SetActive(parseID(c.Param("id")), false)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// GET /users/:id/workload
func (h *UserHandler) Workload(c *gin.Context) {
	workload, memberships, err := h.userService.Workload(parseID(c.Param("id")))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"workload":    workload,
		"memberships": memberships,
	})
}
