package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	StudentRepository    *StudentRepository
	TeacherRepository    *TeacherRepository
	SubjectRepository    *SubjectRepository
	AttendanceRepository *AttendanceRepository
	ResultRepository     *ResultRepository
	LeaveRepository      *LeaveRepository
	FeedbackRepository   *FeedbackRepository
	TokenRepository      *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		StudentRepository:    NewStudentRepository(db),
		TeacherRepository:    NewTeacherRepository(db),
		SubjectRepository:    NewSubjectRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
		ResultRepository:     NewResultRepository(db),
		LeaveRepository:      NewLeaveRepository(db),
		FeedbackRepository:   NewFeedbackRepository(db),
		TokenRepository:      NewTokenRepository(db),
	}
}
