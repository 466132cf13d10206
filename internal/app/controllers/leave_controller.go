package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/services"
	"github.com/kerems/akademix/internal/middleware"
)

// LeaveController handles leave workflow operations
type LeaveController struct {
	leaveService services.LeaveService
	logger       zerolog.Logger
}

// NewLeaveController creates a new LeaveController
func NewLeaveController(leaveService services.LeaveService, logger zerolog.Logger) *LeaveController {
	return &LeaveController{
		leaveService: leaveService,
		logger:       logger,
	}
}

// SubmitStudentLeave files a student leave request
// @Summary Submit student leave
// @Description Files a leave request addressed to an admin (student only). Date must not be in the past.
// @Tags leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitStudentLeaveRequest true "Leave request"
// @Success 201 {object} dto.APIResponse{data=models.Leave} "Leave submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid date or admin reference"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /leaves [post]
func (c *LeaveController) SubmitStudentLeave(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.SubmitStudentLeaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	leave, err := c.leaveService.SubmitStudentLeave(ctx.Request.Context(), who, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(leave, "Leave submitted"))
}

// SubmitTeacherLeave files a teacher leave request
// @Summary Submit teacher leave
// @Description Files a leave request (teacher only). Date must not be in the past.
// @Tags leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitTeacherLeaveRequest true "Leave request"
// @Success 201 {object} dto.APIResponse{data=models.Leave} "Leave submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /leaves/teacher [post]
func (c *LeaveController) SubmitTeacherLeave(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.SubmitTeacherLeaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	leave, err := c.leaveService.SubmitTeacherLeave(ctx.Request.Context(), who, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(leave, "Leave submitted"))
}

// UpdateLeave decides a request or edits its reason
// @Summary Update leave
// @Description Admin writes any status from the enum; the requester may edit the reason while the request is PENDING
// @Tags leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID"
// @Param request body dto.UpdateLeaveRequest true "Status or reason"
// @Success 200 {object} dto.APIResponse{data=models.Leave} "Leave updated"
// @Failure 400 {object} dto.ErrorResponse "Leave no longer editable"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Router /leaves/{id} [put]
func (c *LeaveController) UpdateLeave(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.UpdateLeaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	leave, err := c.leaveService.UpdateLeave(ctx.Request.Context(), who, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(leave, "Leave updated"))
}

// ListLeaves returns role-scoped leave requests
// @Summary List leaves
// @Description Returns leave requests scoped by role: admin all (optionally filtered by requester role), teacher and student their own
// @Tags leaves
// @Produce json
// @Security BearerAuth
// @Param requesterRole query string false "Filter by requester role (admin only): STUDENT or TEACHER"
// @Success 200 {object} dto.APIResponse{data=[]models.Leave} "Leave requests"
// @Router /leaves [get]
func (c *LeaveController) ListLeaves(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	requesterRole := models.Role(strings.ToUpper(ctx.Query("requesterRole")))
	leaves, err := c.leaveService.ListLeaves(ctx.Request.Context(), who, requesterRole)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(leaves, ""))
}
