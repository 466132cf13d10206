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

// studentJoinColumns are the student profile columns plus the joined identity
var studentJoinColumns = []string{
	"s.id", "s.user_id", "s.enrollment_number", "s.class_name", "s.section",
	"u.id", "u.email", "u.first_name", "u.last_name", "u.role", "u.address", "u.is_active",
}

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudentJoin(row pgx.Row) (*models.Student, error) {
	student := &models.Student{User: &models.User{}}
	err := row.Scan(
		&student.ID, &student.UserID, &student.EnrollmentNumber, &student.ClassName, &student.Section,
		&student.User.ID, &student.User.Email, &student.User.FirstName, &student.User.LastName,
		&student.User.Role, &student.User.Address, &student.User.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// CreateStudent inserts a student profile within the given transaction
func (r *StudentRepository) CreateStudent(ctx context.Context, tx pgx.Tx, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "enrollment_number", "class_name", "section").
		Values(student.UserID, student.EnrollmentNumber, student.ClassName, student.Section).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolationOn(err, "students_enrollment_number_key") {
			return 0, apperrors.ErrEnrollmentNumberExists
		}
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrProfileAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return id, nil
}

// GetStudentByID retrieves a student profile with its identity
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentJoinColumns...).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudentJoin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by id: %w", err)
	}

	return student, nil
}

// GetStudentByUserID retrieves the student profile belonging to an identity
func (r *StudentRepository) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentJoinColumns...).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by user query: %w", err)
	}

	student, err := scanStudentJoin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by user id: %w", err)
	}

	return student, nil
}

// ListStudents retrieves a page of student profiles with their identities
func (r *StudentRepository) ListStudents(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sql, args, err := r.sb.Select(studentJoinColumns...).
		From("students s").
		Join("users u ON u.id = s.user_id").
		OrderBy("u.last_name ASC", "u.first_name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudentJoin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, total, nil
}

// UpdateStudentFields applies a partial update to student profile columns
func (r *StudentRepository) UpdateStudentFields(ctx context.Context, tx pgx.Tx, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("students").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error updating student")
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
