package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/service"
	"github.com/shopspring/decimal"
)

type MemberHandler struct {
	membershipService *service.MembershipService
}

func NewMemberHandler(membershipService *service.MembershipService) *MemberHandler {
	return &MemberHandler{membershipService: membershipService}
}

// GET /projects/:id/members
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.membershipService.ListProjectMembers(parseID(c.Param("id")))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, members)
}

// POST /projects/:id/members
func (h *MemberHandler) Assign(c *gin.Context) {
	var req struct {
		UserID             uint            `json:"user_id" binding:"required"`
		WorkloadPercentage decimal.Decimal `json:"workload_percentage" binding:"required"`
		JoinedDate         string          `json:"joined_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}
	joinedDate, err := parseDatePtr(req.JoinedDate)
	if err != nil {
		BadRequest(c, 40001, "invalid joined_date, expected YYYY-MM-DD")
		return
	}

	caller := middleware.GetCurrentUser(c)
	member, err := h.membershipService.Assign(parseID(c.Param("id")), req.UserID, req.WorkloadPercentage, joinedDate, caller.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, member)
}

// PUT /projects/:id/members/:user_id
func (h *MemberHandler) UpdateWorkload(c *gin.Context) {
	var req struct {
		WorkloadPercentage decimal.Decimal `json:"workload_percentage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	member, err := h.membershipService.UpdateWorkload(parseID(c.Param("id")), parseID(c.Param("user_id")), req.WorkloadPercentage)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, member)
}

// DELETE /projects/:id/members/:user_id ends the membership; the row is
// kept for history.
func (h *MemberHandler) End(c *gin.Context) {
	var req struct {
		LeftDate string `json:"left_date"`
	}
	// Body is optional; left date defaults to today.
	_ = c.ShouldBindJSON(&req)
	leftDate, err := parseDatePtr(req.LeftDate)
	if err != nil {
		BadRequest(c, 40001, "invalid left_date, expected YYYY-MM-DD")
		return
	}

	member, err := h.membershipService.End(parseID(c.Param("id")), parseID(c.Param("user_id")), leftDate)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, member)
}
