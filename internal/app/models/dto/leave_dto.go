package dto

import "github.com/kerems/akademix/internal/app/models"

// SubmitStudentLeaveRequest represents a student leave submission.
// Student leaves are addressed to a designated admin.
type SubmitStudentLeaveRequest struct {
	AdminID int64  `json:"adminId" binding:"required,gt=0"`
	Date    string `json:"date" binding:"required"` // 2006-01-02
	Reason  string `json:"reason" binding:"required,max=500"`
}

// SubmitTeacherLeaveRequest represents a teacher leave submission
type SubmitTeacherLeaveRequest struct {
	Date   string `json:"date" binding:"required"` // 2006-01-02
	Reason string `json:"reason" binding:"required,max=500"`
}

// UpdateLeaveRequest drives both sides of the leave workflow: the requester
// may edit the reason while pending, an admin may write any status from the
// enum.
type UpdateLeaveRequest struct {
	Status *models.LeaveStatus `json:"status,omitempty"`
	Reason *string             `json:"reason,omitempty" binding:"omitempty,max=500"`
}
