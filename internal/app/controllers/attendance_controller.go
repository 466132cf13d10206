package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/services"
	"github.com/kerems/akademix/internal/middleware"
)

// AttendanceController handles attendance operations
type AttendanceController struct {
	attendanceService services.AttendanceService
	logger            zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

// SubmitAttendance stores one attendance document
// @Summary Submit attendance
// @Description Stores one attendance document for a date and subject (teacher only). A duplicate (date, subject) submission fails.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitAttendanceRequest true "Attendance document"
// @Success 201 {object} dto.APIResponse{data=models.Attendance} "Attendance submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request, empty records or already submitted"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /attendance [post]
func (c *AttendanceController) SubmitAttendance(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.SubmitAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	attendance, err := c.attendanceService.SubmitAttendance(ctx.Request.Context(), who, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(attendance, "Attendance submitted"))
}

// UpdateAttendance changes one record or the subject inside a document
// @Summary Update attendance
// @Description Changes one student's status or the subject of an existing document (owning teacher or admin)
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance ID"
// @Param request body dto.UpdateAttendanceRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Attendance} "Attendance updated"
// @Failure 403 {object} dto.ErrorResponse "Not the owning teacher"
// @Failure 404 {object} dto.ErrorResponse "Attendance not found"
// @Router /attendance/{id} [put]
func (c *AttendanceController) UpdateAttendance(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	attendance, err := c.attendanceService.UpdateAttendance(ctx.Request.Context(), who, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(attendance, "Attendance updated"))
}

// DeleteAttendance removes a whole document
// @Summary Delete attendance
// @Description Deletes an attendance document with all its records (owning teacher or admin)
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance ID"
// @Success 200 {object} dto.APIResponse "Attendance deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the owning teacher"
// @Failure 404 {object} dto.ErrorResponse "Attendance not found"
// @Router /attendance/{id} [delete]
func (c *AttendanceController) DeleteAttendance(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	who, ok := caller(ctx)
	if !ok {
		return
	}

	if err := c.attendanceService.DeleteAttendance(ctx.Request.Context(), who, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Attendance deleted"))
}

// ListAttendance returns role-scoped attendance documents
// @Summary List attendance
// @Description Returns attendance documents scoped by role: admin all, teacher own, student only documents containing their record
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance} "Attendance documents"
// @Router /attendance [get]
func (c *AttendanceController) ListAttendance(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	attendance, err := c.attendanceService.ListAttendance(ctx.Request.Context(), who)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(attendance, ""))
}

// Summarize returns present/absent counts
// @Summary Attendance summary
// @Description Returns present and absent counts over an optional date window, scoped by role
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param from query string false "Window start (2006-01-02)"
// @Param to query string false "Window end (2006-01-02)"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceSummary} "Summary"
// @Router /attendance/summary [get]
func (c *AttendanceController) Summarize(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var query dto.AttendanceSummaryQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	summary, err := c.attendanceService.Summarize(ctx.Request.Context(), who, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary, ""))
}
