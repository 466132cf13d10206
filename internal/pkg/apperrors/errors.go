package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidRole            = errors.New("invalid role")
	ErrTeacherNeedsSubject    = errors.New("teacher requires at least one subject")
)

// Profile errors
var (
	ErrStudentNotFound            = errors.New("student not found")
	ErrTeacherNotFound            = errors.New("teacher not found")
	ErrEnrollmentNumberExists     = errors.New("enrollment number already exists")
	ErrProfileAlreadyExists       = errors.New("profile already exists for this user")
	ErrNegativeExperience         = errors.New("experience years cannot be negative")
	ErrSubjectNotFound            = errors.New("subject not found")
	ErrSubjectTitleEmpty          = errors.New("subject title cannot be empty")
	ErrSubjectAlreadyExists       = errors.New("subject with this title already exists for this teacher")
	ErrSubjectHasDependentRecords = errors.New("subject has attendance or result records and cannot be deleted")
)

// Transactional record errors
var (
	ErrAttendanceNotFound         = errors.New("attendance not found")
	ErrAttendanceAlreadySubmitted = errors.New("attendance already submitted")
	ErrAttendanceRecordsEmpty     = errors.New("attendance records cannot be empty")
	ErrMarksOutOfRange            = errors.New("marks must be between 0 and 100")
	ErrResultNotFound             = errors.New("result not found")
	ErrLeaveNotFound              = errors.New("leave not found")
	ErrLeaveDateInPast            = errors.New("leave date cannot be in the past")
	ErrLeaveNotEditable           = errors.New("leave can only be edited while pending")
	ErrFeedbackNotFound           = errors.New("feedback not found")
)

// Token format errors
var (
	ErrInvalidFormat = errors.New("invalid token format")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) *CustomError {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) *CustomError {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a new custom error for validation failures with a message
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithField adds the offending field name to the error
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
