package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	pkgauth "github.com/kerems/akademix/internal/pkg/auth"
	"github.com/kerems/akademix/internal/pkg/dberrors"
	"github.com/kerems/akademix/internal/pkg/helpers"
)

type teacherStore interface {
	CreateTeacher(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) (int64, error)
	GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error)
	GetTeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
	ListTeachers(ctx context.Context, offset uint64, limit int) ([]*models.Teacher, int64, error)
	UpdateTeacherFields(ctx context.Context, tx pgx.Tx, id int64, fields map[string]interface{}) error
}

type teacherSubjectStore interface {
	CreateSubjectTx(ctx context.Context, tx pgx.Tx, subject *models.Subject) (int64, error)
	ListSubjects(ctx context.Context, teacherID int64) ([]*models.Subject, error)
}

// TeacherService defines the interface for teacher roster operations
type TeacherService interface {
	CreateTeacher(ctx context.Context, req *dto.CreateTeacherRequest) (*models.Teacher, error)
	GetTeacher(ctx context.Context, id int64) (*models.Teacher, error)
	ListTeachers(ctx context.Context, page, size int) ([]*models.Teacher, dto.PaginationInfo, error)
	UpdateTeacher(ctx context.Context, id int64, req *dto.UpdateTeacherRequest) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id int64) error
}

// teacherServiceImpl implements the TeacherService interface
type teacherServiceImpl struct {
	tx       txRunner
	teachers teacherStore
	subjects teacherSubjectStore
	users    rosterUserStore
	logger   zerolog.Logger
}

// NewTeacherService creates a new teacher service instance
func NewTeacherService(tx txRunner, teachers teacherStore, subjects teacherSubjectStore, users rosterUserStore, logger zerolog.Logger) TeacherService {
	return &teacherServiceImpl{
		tx:       tx,
		teachers: teachers,
		subjects: subjects,
		users:    users,
		logger:   logger,
	}
}

// CreateTeacher creates an identity, its teacher profile and the initial
// subject assignments in one transaction. A teacher always starts with at
// least one subject.
func (s *teacherServiceImpl) CreateTeacher(ctx context.Context, req *dto.CreateTeacherRequest) (*models.Teacher, error) {
	for _, title := range req.Subjects {
		if strings.TrimSpace(title) == "" {
			return nil, apperrors.ErrSubjectTitleEmpty
		}
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleTeacher,
		Address:   req.Address,
		IsActive:  true,
	}

	var teacherID int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.users.CreateUser(ctx, tx, user)
		if err != nil {
			return err
		}

		teacherID, err = s.teachers.CreateTeacher(ctx, tx, &models.Teacher{
			UserID:          userID,
			Qualification:   req.Qualification,
			ExperienceYears: req.ExperienceYears,
		})
		if err != nil {
			return err
		}

		for _, title := range req.Subjects {
			_, err := s.subjects.CreateSubjectTx(ctx, tx, &models.Subject{
				Title:     strings.TrimSpace(title),
				TeacherID: teacherID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("teacherID", teacherID).Str("email", user.Email).Msg("Teacher created")

	return s.GetTeacher(ctx, teacherID)
}

// GetTeacher retrieves one teacher with their subject assignments
func (s *teacherServiceImpl) GetTeacher(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.teachers.GetTeacherByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjects.ListSubjects(ctx, teacher.ID)
	if err != nil {
		return nil, err
	}
	teacher.Subjects = subjects

	return teacher, nil
}

// ListTeachers retrieves a page of the teacher roster
func (s *teacherServiceImpl) ListTeachers(ctx context.Context, page, size int) ([]*models.Teacher, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	teachers, total, err := s.teachers.ListTeachers(ctx, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	for _, teacher := range teachers {
		subjects, err := s.subjects.ListSubjects(ctx, teacher.ID)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		teacher.Subjects = subjects
	}

	return teachers, helpers.NewPaginationInfo(total, page, limit), nil
}

// UpdateTeacher applies a partial update to identity and profile columns
func (s *teacherServiceImpl) UpdateTeacher(ctx context.Context, id int64, req *dto.UpdateTeacherRequest) (*models.Teacher, error) {
	teacher, err := s.teachers.GetTeacherByID(ctx, id)
	if err != nil {
		return nil, err
	}

	userFields := map[string]interface{}{}
	if req.FirstName != nil {
		userFields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		userFields["last_name"] = *req.LastName
	}
	if req.Address != nil {
		userFields["address"] = *req.Address
	}

	profileFields := map[string]interface{}{}
	if req.Qualification != nil {
		profileFields["qualification"] = *req.Qualification
	}
	if req.ExperienceYears != nil {
		if *req.ExperienceYears < 0 {
			return nil, apperrors.ErrNegativeExperience
		}
		profileFields["experience_years"] = *req.ExperienceYears
	}

	if len(userFields) == 0 && len(profileFields) == 0 {
		return s.GetTeacher(ctx, id)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if len(userFields) > 0 {
			if err := s.users.UpdateUserFields(ctx, tx, teacher.UserID, userFields); err != nil {
				return err
			}
		}
		if len(profileFields) > 0 {
			if err := s.teachers.UpdateTeacherFields(ctx, tx, id, profileFields); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTeacher(ctx, id)
}

// DeleteTeacher removes the teacher profile, its subject assignments and its
// identity. Attendance, result and feedback references block the delete.
func (s *teacherServiceImpl) DeleteTeacher(ctx context.Context, id int64) error {
	teacher, err := s.teachers.GetTeacherByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.users.DeleteUser(ctx, tx, teacher.UserID)
	})
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewConflictError("teacher has attendance, result or feedback records and cannot be deleted")
		}
		return err
	}

	s.logger.Info().Int64("teacherID", id).Msg("Teacher deleted")
	return nil
}
