package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/pkg/apperrors"
)

type feedbackStore interface {
	CreateFeedback(ctx context.Context, feedback *models.Feedback) (int64, error)
	GetFeedbackByID(ctx context.Context, id int64) (*models.Feedback, error)
	ListFeedback(ctx context.Context, teacherID int64) ([]*models.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status models.FeedbackStatus) error
}

// FeedbackService defines the interface for feedback operations
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, caller Caller, req *dto.SubmitFeedbackRequest) (*models.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, id int64, req *dto.UpdateFeedbackStatusRequest) (*models.Feedback, error)
	ListFeedback(ctx context.Context, caller Caller) ([]*models.Feedback, error)
}

// feedbackServiceImpl implements the FeedbackService interface
type feedbackServiceImpl struct {
	feedback feedbackStore
	profiles profileResolver
	logger   zerolog.Logger
}

// NewFeedbackService creates a new feedback service instance
func NewFeedbackService(feedback feedbackStore, profiles profileResolver, logger zerolog.Logger) FeedbackService {
	return &feedbackServiceImpl{
		feedback: feedback,
		profiles: profiles,
		logger:   logger,
	}
}

// SubmitFeedback stores a new entry for the calling teacher. Content is
// immutable after this point; only the status moves.
func (s *feedbackServiceImpl) SubmitFeedback(ctx context.Context, caller Caller, req *dto.SubmitFeedbackRequest) (*models.Feedback, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.NewValidationError("content cannot be empty").WithField("content")
	}

	teacher, err := s.profiles.GetTeacherByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		TeacherID: teacher.ID,
		Content:   req.Content,
	}

	id, err := s.feedback.CreateFeedback(ctx, feedback)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("feedbackID", id).Int64("teacherID", teacher.ID).Msg("Feedback submitted")

	return s.feedback.GetFeedbackByID(ctx, id)
}

// UpdateFeedbackStatus moves an entry through its lifecycle
func (s *feedbackServiceImpl) UpdateFeedbackStatus(ctx context.Context, id int64, req *dto.UpdateFeedbackStatusRequest) (*models.Feedback, error) {
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationError("status must be PENDING or REVIEWED").WithField("status")
	}

	if _, err := s.feedback.GetFeedbackByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.feedback.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}

	return s.feedback.GetFeedbackByID(ctx, id)
}

// ListFeedback returns entries scoped by the caller's role: admins see all,
// teachers their own
func (s *feedbackServiceImpl) ListFeedback(ctx context.Context, caller Caller) ([]*models.Feedback, error) {
	var teacherID int64
	if caller.Role == models.RoleTeacher {
		teacher, err := s.profiles.GetTeacherByUserID(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		teacherID = teacher.ID
	}
	return s.feedback.ListFeedback(ctx, teacherID)
}
