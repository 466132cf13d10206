package dto

import "github.com/kerems/akademix/internal/app/models"

// SubmitAttendanceRequest represents one attendance document submission:
// every (student, status) pair for a given date and subject.
type SubmitAttendanceRequest struct {
	Date      string                            `json:"date" binding:"required"` // 2006-01-02
	SubjectID int64                             `json:"subjectId" binding:"required,gt=0"`
	Records   map[int64]models.AttendanceStatus `json:"records" binding:"required"`
}

// UpdateAttendanceRequest updates a single student's status or the subject
// field within an existing document. At least one of the two must be present.
type UpdateAttendanceRequest struct {
	StudentID *int64                   `json:"studentId,omitempty" binding:"omitempty,gt=0"`
	Status    *models.AttendanceStatus `json:"status,omitempty"`
	SubjectID *int64                   `json:"subjectId,omitempty" binding:"omitempty,gt=0"`
}

// AttendanceSummaryQuery is the query window for the summary aggregation
type AttendanceSummaryQuery struct {
	From string `form:"from"` // 2006-01-02, optional
	To   string `form:"to"`   // 2006-01-02, optional
}
