package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/services"
	"github.com/kerems/akademix/internal/middleware"
)

// SubjectController handles subject catalog operations
type SubjectController struct {
	subjectService services.SubjectService
	logger         zerolog.Logger
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService services.SubjectService, logger zerolog.Logger) *SubjectController {
	return &SubjectController{
		subjectService: subjectService,
		logger:         logger,
	}
}

// CreateSubject adds a subject to the catalog
// @Summary Create subject
// @Description Creates a subject assigned to an existing teacher (admin only)
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or duplicate title for the teacher"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	subject, err := c.subjectService.CreateSubject(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(subject, "Subject created"))
}

// GetSubject retrieves one subject
// @Summary Get subject
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	subject, err := c.subjectService.GetSubject(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(subject, ""))
}

// ListSubjects retrieves the catalog
// @Summary List subjects
// @Description Returns all subjects, optionally filtered by teacher
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param teacherId query int false "Filter by teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Subjects"
// @Router /subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	var teacherID int64
	if raw := ctx.Query("teacherId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid teacherId parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		teacherID = parsed
	}

	subjects, err := c.subjectService.ListSubjects(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(subjects, ""))
}

// UpdateSubject applies a partial update
// @Summary Update subject
// @Description Updates title, description or teacher assignment (admin only)
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param request body dto.UpdateSubjectRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject updated"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [put]
func (c *SubjectController) UpdateSubject(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	subject, err := c.subjectService.UpdateSubject(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(subject, "Subject updated"))
}

// DeleteSubject removes a subject
// @Summary Delete subject
// @Description Deletes a subject (admin only). Attendance or result references block the delete.
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse "Subject deleted"
// @Failure 400 {object} dto.ErrorResponse "Subject has dependent records"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.subjectService.DeleteSubject(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Subject deleted"))
}
