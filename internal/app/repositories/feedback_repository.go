package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	"github.com/kerems/akademix/internal/pkg/dberrors"
	"github.com/kerems/akademix/internal/pkg/logger"
)

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateFeedback creates a new feedback entry, always born PENDING
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, feedback *models.Feedback) (int64, error) {
	sql, args, err := r.sb.Insert("feedback").
		Columns("teacher_id", "content", "status").
		Values(feedback.TeacherID, feedback.Content, models.FeedbackPending).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create feedback query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Msg("Error executing create feedback query")
		return 0, fmt.Errorf("error creating feedback: %w", err)
	}

	return id, nil
}

// GetFeedbackByID retrieves a feedback entry by ID
func (r *FeedbackRepository) GetFeedbackByID(ctx context.Context, id int64) (*models.Feedback, error) {
	sql, args, err := r.sb.Select("id", "teacher_id", "content", "status", "created_at").
		From("feedback").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get feedback query: %w", err)
	}

	feedback := &models.Feedback{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&feedback.ID, &feedback.TeacherID, &feedback.Content, &feedback.Status, &feedback.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeedbackNotFound
		}
		logger.Error().Err(err).Int64("feedbackID", id).Msg("Error scanning feedback row")
		return nil, fmt.Errorf("error getting feedback by id: %w", err)
	}

	return feedback, nil
}

// ListFeedback retrieves feedback entries, optionally scoped to one teacher.
// A zero teacherID means no filter.
func (r *FeedbackRepository) ListFeedback(ctx context.Context, teacherID int64) ([]*models.Feedback, error) {
	query := r.sb.Select("id", "teacher_id", "content", "status", "created_at").
		From("feedback").
		OrderBy("created_at DESC", "id DESC")
	if teacherID > 0 {
		query = query.Where(squirrel.Eq{"teacher_id": teacherID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list feedback query")
		return nil, fmt.Errorf("error querying feedback: %w", err)
	}
	defer rows.Close()

	entries := []*models.Feedback{}
	for rows.Next() {
		feedback := &models.Feedback{}
		if err := rows.Scan(&feedback.ID, &feedback.TeacherID, &feedback.Content, &feedback.Status, &feedback.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		entries = append(entries, feedback)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}

	return entries, nil
}

// UpdateStatus moves a feedback entry through its lifecycle. Content is
// immutable after creation so only the status column is writable.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id int64, status models.FeedbackStatus) error {
	sql, args, err := r.sb.Update("feedback").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update feedback status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("feedbackID", id).Msg("Error updating feedback status")
		return fmt.Errorf("error updating feedback status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeedbackNotFound
	}

	return nil
}
