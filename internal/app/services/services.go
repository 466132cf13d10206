package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/repositories"
	"github.com/kerems/akademix/internal/db"
	pkgauth "github.com/kerems/akademix/internal/pkg/auth"
)

// Services holds all the service instances
type Services struct {
	AuthService       AuthService
	StudentService    StudentService
	TeacherService    TeacherService
	SubjectService    SubjectService
	AttendanceService AttendanceService
	ResultService     ResultService
	LeaveService      LeaveService
	FeedbackService   FeedbackService
}

// profileStores bundles the two roster repositories behind the
// profileResolver interface
type profileStores struct {
	teachers *repositories.TeacherRepository
	students *repositories.StudentRepository
}

func (p profileStores) GetTeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	return p.teachers.GetTeacherByUserID(ctx, userID)
}

func (p profileStores) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return p.students.GetStudentByUserID(ctx, userID)
}

// NewServices initializes all services over the shared repository set
func NewServices(database *db.PostgresDB, repos *repositories.Repositories, jwt *pkgauth.JWTService, logger zerolog.Logger) *Services {
	profiles := profileStores{
		teachers: repos.TeacherRepository,
		students: repos.StudentRepository,
	}

	return &Services{
		AuthService: NewAuthService(
			database,
			repos.UserRepository,
			repos.StudentRepository,
			repos.TeacherRepository,
			repos.SubjectRepository,
			repos.TokenRepository,
			jwt,
			logger,
		),
		StudentService:    NewStudentService(database, repos.StudentRepository, repos.UserRepository, logger),
		TeacherService:    NewTeacherService(database, repos.TeacherRepository, repos.SubjectRepository, repos.UserRepository, logger),
		SubjectService:    NewSubjectService(repos.SubjectRepository, repos.TeacherRepository, logger),
		AttendanceService: NewAttendanceService(repos.AttendanceRepository, profiles, logger),
		ResultService:     NewResultService(repos.ResultRepository, profiles, logger),
		LeaveService:      NewLeaveService(repos.LeaveRepository, repos.UserRepository, logger),
		FeedbackService:   NewFeedbackService(repos.FeedbackRepository, profiles, logger),
	}
}
