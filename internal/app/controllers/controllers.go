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

// Controllers holds all the controller instances
type Controllers struct {
	Auth       *AuthController
	Student    *StudentController
	Teacher    *TeacherController
	Subject    *SubjectController
	Attendance *AttendanceController
	Result     *ResultController
	Leave      *LeaveController
	Feedback   *FeedbackController
}

// NewControllers initializes all controllers over the shared service set
func NewControllers(svcs *services.Services, logger zerolog.Logger) *Controllers {
	return &Controllers{
		Auth:       NewAuthController(svcs.AuthService, logger),
		Student:    NewStudentController(svcs.StudentService, logger),
		Teacher:    NewTeacherController(svcs.TeacherService, logger),
		Subject:    NewSubjectController(svcs.SubjectService, logger),
		Attendance: NewAttendanceController(svcs.AttendanceService, logger),
		Result:     NewResultController(svcs.ResultService, logger),
		Leave:      NewLeaveController(svcs.LeaveService, logger),
		Feedback:   NewFeedbackController(svcs.FeedbackService, logger),
	}
}

// caller resolves the authenticated identity from the request context,
// answering 401 itself when the context is missing it
func caller(ctx *gin.Context) (services.Caller, bool) {
	userID, idOK := middleware.CallerID(ctx)
	role, roleOK := middleware.CallerRole(ctx)
	if !idOK || !roleOK {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return services.Caller{}, false
	}
	return services.Caller{UserID: userID, Role: role}, true
}

// pathID parses the :id path parameter, answering 400 itself on garbage
func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
