package models

import "time"

// Feedback defines a feedback entry based on the 'feedback' table. Content is
// immutable after creation; only the status moves (PENDING to REVIEWED).
type Feedback struct {
	ID        int64          `json:"id" db:"id"`
	TeacherID int64          `json:"teacherId" db:"teacher_id"`
	Content   string         `json:"content" db:"content"`
	Status    FeedbackStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	Teacher   *Teacher       `json:"teacher,omitempty"` // Relation, no db tag
}
