package dto

// SubmitResultRequest represents a marks submission
type SubmitResultRequest struct {
	StudentID int64   `json:"studentId" binding:"required,gt=0"`
	SubjectID int64   `json:"subjectId" binding:"required,gt=0"`
	Marks     float64 `json:"marks" binding:"gte=0,lte=100"`
}
