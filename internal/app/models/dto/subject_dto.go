package dto

// CreateSubjectRequest represents a subject creation request
type CreateSubjectRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=1000"`
	TeacherID   int64   `json:"teacherId" binding:"required,gt=0"`
}

// UpdateSubjectRequest represents a partial subject update
type UpdateSubjectRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=1000"`
	TeacherID   *int64  `json:"teacherId,omitempty" binding:"omitempty,gt=0"`
}
