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

// teacherJoinColumns are the teacher profile columns plus the joined identity
var teacherJoinColumns = []string{
	"t.id", "t.user_id", "t.qualification", "t.experience_years",
	"u.id", "u.email", "u.first_name", "u.last_name", "u.role", "u.address", "u.is_active",
}

// TeacherRepository handles teacher profile database operations
type TeacherRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTeacherJoin(row pgx.Row) (*models.Teacher, error) {
	teacher := &models.Teacher{User: &models.User{}}
	err := row.Scan(
		&teacher.ID, &teacher.UserID, &teacher.Qualification, &teacher.ExperienceYears,
		&teacher.User.ID, &teacher.User.Email, &teacher.User.FirstName, &teacher.User.LastName,
		&teacher.User.Role, &teacher.User.Address, &teacher.User.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

// CreateTeacher inserts a teacher profile within the given transaction
func (r *TeacherRepository) CreateTeacher(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) (int64, error) {
	sql, args, err := r.sb.Insert("teachers").
		Columns("user_id", "qualification", "experience_years").
		Values(teacher.UserID, teacher.Qualification, teacher.ExperienceYears).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create teacher query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrProfileAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create teacher query")
		return 0, fmt.Errorf("error creating teacher: %w", err)
	}

	return id, nil
}

// GetTeacherByID retrieves a teacher profile with its identity
func (r *TeacherRepository) GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error) {
	sql, args, err := r.sb.Select(teacherJoinColumns...).
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		Where(squirrel.Eq{"t.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	teacher, err := scanTeacherJoin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Int64("teacherID", id).Msg("Error scanning teacher row")
		return nil, fmt.Errorf("error getting teacher by id: %w", err)
	}

	return teacher, nil
}

// GetTeacherByUserID retrieves the teacher profile belonging to an identity
func (r *TeacherRepository) GetTeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	sql, args, err := r.sb.Select(teacherJoinColumns...).
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		Where(squirrel.Eq{"t.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher by user query: %w", err)
	}

	teacher, err := scanTeacherJoin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning teacher row")
		return nil, fmt.Errorf("error getting teacher by user id: %w", err)
	}

	return teacher, nil
}

// ListTeachers retrieves a page of teacher profiles with their identities
func (r *TeacherRepository) ListTeachers(ctx context.Context, offset uint64, limit int) ([]*models.Teacher, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("teachers").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count teachers query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting teachers")
		return nil, 0, fmt.Errorf("error counting teachers: %w", err)
	}

	sql, args, err := r.sb.Select(teacherJoinColumns...).
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		OrderBy("u.last_name ASC", "u.first_name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list teachers query")
		return nil, 0, fmt.Errorf("error querying teachers: %w", err)
	}
	defer rows.Close()

	teachers := []*models.Teacher{}
	for rows.Next() {
		teacher, err := scanTeacherJoin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning teacher row: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating teacher rows: %w", err)
	}

	return teachers, total, nil
}

// UpdateTeacherFields applies a partial update to teacher profile columns
func (r *TeacherRepository) UpdateTeacherFields(ctx context.Context, tx pgx.Tx, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("teachers").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update teacher query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("teacherID", id).Msg("Error updating teacher")
		return fmt.Errorf("error updating teacher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}

	return nil
}
