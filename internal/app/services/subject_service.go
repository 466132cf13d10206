package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/pkg/apperrors"
)

type subjectStore interface {
	CreateSubject(ctx context.Context, subject *models.Subject) (int64, error)
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	ListSubjects(ctx context.Context, teacherID int64) ([]*models.Subject, error)
	UpdateSubjectFields(ctx context.Context, id int64, fields map[string]interface{}) error
	DeleteSubject(ctx context.Context, id int64) error
}

type subjectTeacherStore interface {
	GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error)
}

// SubjectService defines the interface for subject catalog operations
type SubjectService interface {
	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error)
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
	ListSubjects(ctx context.Context, teacherID int64) ([]*models.Subject, error)
	UpdateSubject(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error
}

// subjectServiceImpl implements the SubjectService interface
type subjectServiceImpl struct {
	subjects subjectStore
	teachers subjectTeacherStore
	logger   zerolog.Logger
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(subjects subjectStore, teachers subjectTeacherStore, logger zerolog.Logger) SubjectService {
	return &subjectServiceImpl{
		subjects: subjects,
		teachers: teachers,
		logger:   logger,
	}
}

// CreateSubject adds a subject to the catalog, assigned to an existing teacher
func (s *subjectServiceImpl) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.ErrSubjectTitleEmpty
	}

	if _, err := s.teachers.GetTeacherByID(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	subject := &models.Subject{
		Title:       title,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	}

	id, err := s.subjects.CreateSubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	subject.ID = id

	s.logger.Info().Int64("subjectID", id).Str("title", title).Msg("Subject created")

	return subject, nil
}

// GetSubject retrieves one subject
func (s *subjectServiceImpl) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	return s.subjects.GetSubjectByID(ctx, id)
}

// ListSubjects retrieves the catalog, optionally filtered by teacher
func (s *subjectServiceImpl) ListSubjects(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	return s.subjects.ListSubjects(ctx, teacherID)
}

// UpdateSubject applies a partial update, including reassignment to another
// teacher
func (s *subjectServiceImpl) UpdateSubject(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	if _, err := s.subjects.GetSubjectByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.ErrSubjectTitleEmpty
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.TeacherID != nil {
		if _, err := s.teachers.GetTeacherByID(ctx, *req.TeacherID); err != nil {
			return nil, err
		}
		fields["teacher_id"] = *req.TeacherID
	}

	if len(fields) > 0 {
		if err := s.subjects.UpdateSubjectFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return s.subjects.GetSubjectByID(ctx, id)
}

// DeleteSubject removes a subject. Attendance and result references block the
// delete.
func (s *subjectServiceImpl) DeleteSubject(ctx context.Context, id int64) error {
	if _, err := s.subjects.GetSubjectByID(ctx, id); err != nil {
		return err
	}

	if err := s.subjects.DeleteSubject(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("subjectID", id).Msg("Subject deleted")
	return nil
}
