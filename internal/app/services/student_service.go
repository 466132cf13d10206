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

type studentStore interface {
	CreateStudent(ctx context.Context, tx pgx.Tx, student *models.Student) (int64, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
	ListStudents(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error)
	UpdateStudentFields(ctx context.Context, tx pgx.Tx, id int64, fields map[string]interface{}) error
}

type rosterUserStore interface {
	CreateUser(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error)
	UpdateUserFields(ctx context.Context, tx pgx.Tx, id int64, fields map[string]interface{}) error
	DeleteUser(ctx context.Context, tx pgx.Tx, id int64) error
}

// StudentService defines the interface for student roster operations
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, caller Caller, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, caller Caller, page, size int) ([]*models.Student, dto.PaginationInfo, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	tx       txRunner
	students studentStore
	users    rosterUserStore
	logger   zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(tx txRunner, students studentStore, users rosterUserStore, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		tx:       tx,
		students: students,
		users:    users,
		logger:   logger,
	}
}

// CreateStudent creates an identity and its student profile in one transaction
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleStudent,
		Address:   req.Address,
		IsActive:  true,
	}

	var studentID int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.users.CreateUser(ctx, tx, user)
		if err != nil {
			return err
		}
		user.ID = userID

		studentID, err = s.students.CreateStudent(ctx, tx, &models.Student{
			UserID:           userID,
			EnrollmentNumber: req.EnrollmentNumber,
			ClassName:        req.ClassName,
			Section:          req.Section,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Str("email", user.Email).Msg("Student created")

	return s.students.GetStudentByID(ctx, studentID)
}

// GetStudent retrieves one student. A student caller may only read their own
// profile; teachers and admins may read any.
func (s *studentServiceImpl) GetStudent(ctx context.Context, caller Caller, id int64) (*models.Student, error) {
	student, err := s.students.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if caller.Role == models.RoleStudent && student.UserID != caller.UserID {
		return nil, apperrors.ErrPermissionDenied
	}

	return student, nil
}

// ListStudents retrieves a page of the student roster. A student caller sees
// only their own row; teachers and admins see everyone.
func (s *studentServiceImpl) ListStudents(ctx context.Context, caller Caller, page, size int) ([]*models.Student, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	if caller.Role == models.RoleStudent {
		student, err := s.students.GetStudentByUserID(ctx, caller.UserID)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		return []*models.Student{student}, helpers.NewPaginationInfo(1, page, limit), nil
	}

	students, total, err := s.students.ListStudents(ctx, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return students, helpers.NewPaginationInfo(total, page, limit), nil
}

// UpdateStudent applies a partial update to identity and profile columns
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.students.GetStudentByID(ctx, id)
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
	if req.ClassName != nil {
		profileFields["class_name"] = *req.ClassName
	}
	if req.Section != nil {
		profileFields["section"] = *req.Section
	}

	if len(userFields) == 0 && len(profileFields) == 0 {
		return student, nil
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if len(userFields) > 0 {
			if err := s.users.UpdateUserFields(ctx, tx, student.UserID, userFields); err != nil {
				return err
			}
		}
		if len(profileFields) > 0 {
			if err := s.students.UpdateStudentFields(ctx, tx, id, profileFields); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.students.GetStudentByID(ctx, id)
}

// DeleteStudent removes the student profile and its identity. The profile row
// goes with the user via cascade; attendance and result references block the
// delete.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	student, err := s.students.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.users.DeleteUser(ctx, tx, student.UserID)
	})
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewConflictError("student has attendance or result records and cannot be deleted")
		}
		return err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
