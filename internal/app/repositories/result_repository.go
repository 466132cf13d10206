package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	"github.com/kerems/akademix/internal/pkg/dberrors"
	"github.com/kerems/akademix/internal/pkg/logger"
)

// ResultFilter narrows result queries. Zero fields are ignored.
type ResultFilter struct {
	TeacherID int64
	StudentID int64
	SubjectID int64
}

// ResultRepository handles result database operations
type ResultRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateResult creates a new result record. There is no duplicate prevention
// across (student, subject): resubmission adds a second record.
func (r *ResultRepository) CreateResult(ctx context.Context, result *models.Result) (int64, error) {
	sql, args, err := r.sb.Insert("results").
		Columns("student_id", "subject_id", "teacher_id", "marks").
		Values(result.StudentID, result.SubjectID, result.TeacherID, result.Marks).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create result query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Msg("Error executing create result query")
		return 0, fmt.Errorf("error creating result: %w", err)
	}

	return id, nil
}

// ListResults retrieves results matching the filter, newest first
func (r *ResultRepository) ListResults(ctx context.Context, filter ResultFilter) ([]*models.Result, error) {
	query := r.sb.Select("id", "student_id", "subject_id", "teacher_id", "marks", "created_at").
		From("results").
		OrderBy("created_at DESC", "id DESC")
	if filter.TeacherID > 0 {
		query = query.Where(squirrel.Eq{"teacher_id": filter.TeacherID})
	}
	if filter.StudentID > 0 {
		query = query.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.SubjectID > 0 {
		query = query.Where(squirrel.Eq{"subject_id": filter.SubjectID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list results query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list results query")
		return nil, fmt.Errorf("error querying results: %w", err)
	}
	defer rows.Close()

	results := []*models.Result{}
	for rows.Next() {
		result := &models.Result{}
		if err := rows.Scan(&result.ID, &result.StudentID, &result.SubjectID, &result.TeacherID, &result.Marks, &result.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning result row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return results, nil
}

// AverageBySubject computes the arithmetic mean of marks per subject across
// the rows the filter admits. One row per subject, recomputed per request.
func (r *ResultRepository) AverageBySubject(ctx context.Context, filter ResultFilter) ([]*models.SubjectAverage, error) {
	query := r.sb.Select("s.id", "s.title", "AVG(r.marks)", "COUNT(r.id)").
		From("results r").
		Join("subjects s ON s.id = r.subject_id").
		GroupBy("s.id", "s.title").
		OrderBy("s.title ASC")
	if filter.TeacherID > 0 {
		query = query.Where(squirrel.Eq{"r.teacher_id": filter.TeacherID})
	}
	if filter.StudentID > 0 {
		query = query.Where(squirrel.Eq{"r.student_id": filter.StudentID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build average marks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing average marks query")
		return nil, fmt.Errorf("error querying average marks: %w", err)
	}
	defer rows.Close()

	averages := []*models.SubjectAverage{}
	for rows.Next() {
		avg := &models.SubjectAverage{}
		if err := rows.Scan(&avg.SubjectID, &avg.SubjectTitle, &avg.AverageMarks, &avg.ResultCount); err != nil {
			return nil, fmt.Errorf("error scanning average marks row: %w", err)
		}
		averages = append(averages, avg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating average marks rows: %w", err)
	}

	return averages, nil
}
