package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/repositories"
	"github.com/kerems/akademix/internal/pkg/apperrors"
)

type resultStore interface {
	CreateResult(ctx context.Context, result *models.Result) (int64, error)
	ListResults(ctx context.Context, filter repositories.ResultFilter) ([]*models.Result, error)
	AverageBySubject(ctx context.Context, filter repositories.ResultFilter) ([]*models.SubjectAverage, error)
}

// ResultService defines the interface for marks operations
type ResultService interface {
	SubmitResult(ctx context.Context, caller Caller, req *dto.SubmitResultRequest) (*models.Result, error)
	ListResults(ctx context.Context, caller Caller) ([]*models.Result, error)
	AverageMarks(ctx context.Context, caller Caller) ([]*models.SubjectAverage, error)
}

// resultServiceImpl implements the ResultService interface
type resultServiceImpl struct {
	results  resultStore
	profiles profileResolver
	logger   zerolog.Logger
}

// NewResultService creates a new result service instance
func NewResultService(results resultStore, profiles profileResolver, logger zerolog.Logger) ResultService {
	return &resultServiceImpl{
		results:  results,
		profiles: profiles,
		logger:   logger,
	}
}

// SubmitResult records marks for one student in one subject. Resubmitting the
// same pair adds a second record rather than overwriting.
func (s *resultServiceImpl) SubmitResult(ctx context.Context, caller Caller, req *dto.SubmitResultRequest) (*models.Result, error) {
	if req.Marks < 0 || req.Marks > 100 {
		return nil, apperrors.ErrMarksOutOfRange
	}

	teacher, err := s.profiles.GetTeacherByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	result := &models.Result{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TeacherID: teacher.ID,
		Marks:     req.Marks,
	}

	id, err := s.results.CreateResult(ctx, result)
	if err != nil {
		return nil, err
	}
	result.ID = id

	s.logger.Info().Int64("resultID", id).Int64("studentID", req.StudentID).Int64("subjectID", req.SubjectID).Msg("Result submitted")

	return result, nil
}

// ListResults returns marks scoped by the caller's role: admins see all,
// teachers their own submissions, students their own marks
func (s *resultServiceImpl) ListResults(ctx context.Context, caller Caller) ([]*models.Result, error) {
	filter, err := s.scopeFilter(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.results.ListResults(ctx, filter)
}

// AverageMarks computes the per-subject arithmetic mean over the caller's
// visible results, recomputed on every request
func (s *resultServiceImpl) AverageMarks(ctx context.Context, caller Caller) ([]*models.SubjectAverage, error) {
	filter, err := s.scopeFilter(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.results.AverageBySubject(ctx, filter)
}

func (s *resultServiceImpl) scopeFilter(ctx context.Context, caller Caller) (repositories.ResultFilter, error) {
	var filter repositories.ResultFilter

	switch caller.Role {
	case models.RoleTeacher:
		teacher, err := s.profiles.GetTeacherByUserID(ctx, caller.UserID)
		if err != nil {
			return filter, err
		}
		filter.TeacherID = teacher.ID
	case models.RoleStudent:
		student, err := s.profiles.GetStudentByUserID(ctx, caller.UserID)
		if err != nil {
			return filter, err
		}
		filter.StudentID = student.ID
	}

	return filter, nil
}
