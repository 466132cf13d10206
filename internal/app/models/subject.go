package models

// Subject defines the subject model based on the 'subjects' table.
// Each subject is taught by exactly one teacher.
type Subject struct {
	ID          int64    `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	Description *string  `json:"description,omitempty" db:"description"` // Pointer for potential NULL
	TeacherID   int64    `json:"teacherId" db:"teacher_id"`
	Teacher     *Teacher `json:"teacher,omitempty"` // Relation, no db tag
}
