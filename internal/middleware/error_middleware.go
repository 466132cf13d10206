package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	"github.com/kerems/akademix/internal/pkg/logger"
)

// HandleAPIError maps application errors onto HTTP responses. Conflicts with
// submitted data (duplicate email, duplicate attendance, dependent records)
// answer 400, matching the rest of the request-shape errors.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := ""
	field := ""
	if errors.As(err, &customErr) {
		message = customErr.Message
		field = customErr.Field
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrTeacherNeedsSubject),
		errors.Is(err, apperrors.ErrNegativeExperience),
		errors.Is(err, apperrors.ErrSubjectTitleEmpty),
		errors.Is(err, apperrors.ErrAttendanceRecordsEmpty),
		errors.Is(err, apperrors.ErrMarksOutOfRange),
		errors.Is(err, apperrors.ErrLeaveDateInPast),
		errors.Is(err, apperrors.ErrLeaveNotEditable):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, fallback(message, err.Error()), field)

	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrEmailAlreadyRegistered),
		errors.Is(err, apperrors.ErrEnrollmentNumberExists),
		errors.Is(err, apperrors.ErrProfileAlreadyExists),
		errors.Is(err, apperrors.ErrSubjectAlreadyExists),
		errors.Is(err, apperrors.ErrSubjectHasDependentRecords),
		errors.Is(err, apperrors.ErrAttendanceAlreadySubmitted):
		respond(c, http.StatusBadRequest, dto.ErrorCodeResourceConflict, fallback(message, err.Error()), field)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password", "")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Account is disabled", "")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", "")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", "")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found", "")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked", "")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", "")

	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrTeacherNotFound),
		errors.Is(err, apperrors.ErrSubjectNotFound),
		errors.Is(err, apperrors.ErrAttendanceNotFound),
		errors.Is(err, apperrors.ErrResultNotFound),
		errors.Is(err, apperrors.ErrLeaveNotFound),
		errors.Is(err, apperrors.ErrFeedbackNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, fallback(message, err.Error()), field)

	default:
		// Internal details stay in the log, not the response
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", "")
	}
}

// HandleValidationError answers 400 for gin binding failures
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message, field string) {
	errorDetail := dto.NewErrorDetail(code, message)
	if field != "" {
		errorDetail = errorDetail.WithField(field)
	}
	c.JSON(status, dto.NewErrorResponse(errorDetail))
}

func fallback(message, alt string) string {
	if message != "" {
		return message
	}
	return alt
}
