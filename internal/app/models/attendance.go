package models

import "time"

// Attendance is the document head for one attendance submission: one teacher,
// one subject, one calendar date. The (date, teacher, subject) triple is unique
// at the store layer so a duplicate submission fails atomically.
type Attendance struct {
	ID        int64               `json:"id" db:"id"`
	Date      time.Time           `json:"date" db:"attendance_date"`
	TeacherID int64               `json:"teacherId" db:"teacher_id"`
	SubjectID int64               `json:"subjectId" db:"subject_id"`
	CreatedAt time.Time           `json:"createdAt" db:"created_at"`
	Records   []*AttendanceRecord `json:"records,omitempty"` // Relation, no db tag
	Subject   *Subject            `json:"subject,omitempty"` // Relation, no db tag
}

// AttendanceRecord is one (student, status) pair inside an attendance document
type AttendanceRecord struct {
	ID           int64            `json:"id" db:"id"`
	AttendanceID int64            `json:"attendanceId" db:"attendance_id"`
	StudentID    int64            `json:"studentId" db:"student_id"`
	Status       AttendanceStatus `json:"status" db:"status"`
}

// AttendanceSummary holds the present/absent counts computed on demand
type AttendanceSummary struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
}
