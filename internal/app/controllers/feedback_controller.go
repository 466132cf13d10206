package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/services"
	"github.com/kerems/akademix/internal/middleware"
)

// FeedbackController handles feedback operations
type FeedbackController struct {
	feedbackService services.FeedbackService
	logger          zerolog.Logger
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService, logger zerolog.Logger) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// SubmitFeedback stores a new entry
// @Summary Submit feedback
// @Description Stores a feedback entry for the calling teacher. Content is immutable after creation.
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitFeedbackRequest true "Feedback content"
// @Success 201 {object} dto.APIResponse{data=models.Feedback} "Feedback submitted"
// @Failure 400 {object} dto.ErrorResponse "Empty content"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /feedback [post]
func (c *FeedbackController) SubmitFeedback(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	feedback, err := c.feedbackService.SubmitFeedback(ctx.Request.Context(), who, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(feedback, "Feedback submitted"))
}

// UpdateFeedbackStatus moves an entry through its lifecycle
// @Summary Update feedback status
// @Description Marks a feedback entry PENDING or REVIEWED (admin only)
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feedback ID"
// @Param request body dto.UpdateFeedbackStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Feedback} "Feedback updated"
// @Failure 404 {object} dto.ErrorResponse "Feedback not found"
// @Router /feedback/{id} [put]
func (c *FeedbackController) UpdateFeedbackStatus(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateFeedbackStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	feedback, err := c.feedbackService.UpdateFeedbackStatus(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feedback, "Feedback updated"))
}

// ListFeedback returns role-scoped entries
// @Summary List feedback
// @Description Returns feedback entries: admin sees all, teacher their own
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Feedback} "Feedback entries"
// @Router /feedback [get]
func (c *FeedbackController) ListFeedback(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	feedback, err := c.feedbackService.ListFeedback(ctx.Request.Context(), who)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feedback, ""))
}
