package models

import "time"

// Result defines a marks record based on the 'results' table. Resubmitting the
// same (student, subject) deliberately creates a second record; there is no
// unique constraint across that pair.
type Result struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	SubjectID int64     `json:"subjectId" db:"subject_id"`
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	Marks     float64   `json:"marks" db:"marks"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Subject   *Subject  `json:"subject,omitempty"` // Relation, no db tag
}

// SubjectAverage is one row of the average-marks aggregation
type SubjectAverage struct {
	SubjectID    int64   `json:"subjectId"`
	SubjectTitle string  `json:"subjectTitle"`
	AverageMarks float64 `json:"averageMarks"`
	ResultCount  int64   `json:"resultCount"`
}
