package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/services"
	"github.com/kerems/akademix/internal/middleware"
)

// ResultController handles marks operations
type ResultController struct {
	resultService services.ResultService
	logger        zerolog.Logger
}

// NewResultController creates a new ResultController
func NewResultController(resultService services.ResultService, logger zerolog.Logger) *ResultController {
	return &ResultController{
		resultService: resultService,
		logger:        logger,
	}
}

// SubmitResult records marks for one student
// @Summary Submit result
// @Description Records marks between 0 and 100 for one student in one subject (teacher only)
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitResultRequest true "Marks submission"
// @Success 201 {object} dto.APIResponse{data=models.Result} "Result submitted"
// @Failure 400 {object} dto.ErrorResponse "Marks out of range"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /results [post]
func (c *ResultController) SubmitResult(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.SubmitResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.resultService.SubmitResult(ctx.Request.Context(), who, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result, "Result submitted"))
}

// ListResults returns role-scoped results
// @Summary List results
// @Description Returns marks scoped by role: admin all, teacher own submissions, student own marks
// @Tags results
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Result} "Results"
// @Router /results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	results, err := c.resultService.ListResults(ctx.Request.Context(), who)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(results, ""))
}

// AverageMarks returns the per-subject mean
// @Summary Average marks per subject
// @Description Returns one row per subject with the arithmetic mean over the caller's visible results
// @Tags results
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SubjectAverage} "Averages"
// @Router /results/average-marks [get]
func (c *ResultController) AverageMarks(ctx *gin.Context) {
	who, ok := caller(ctx)
	if !ok {
		return
	}

	averages, err := c.resultService.AverageMarks(ctx.Request.Context(), who)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(averages, ""))
}
