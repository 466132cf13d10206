package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/db"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	"github.com/kerems/akademix/internal/pkg/dberrors"
	"github.com/kerems/akademix/internal/pkg/logger"
)

// AttendanceFilter narrows attendance queries. Zero fields are ignored, so
// role-derived scoping composes with the optional date window at query time.
type AttendanceFilter struct {
	TeacherID int64
	StudentID int64
	From      *time.Time
	To        *time.Time
}

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateAttendance inserts a document head and all its records in one
// transaction. The UNIQUE(attendance_date, teacher_id, subject_id) constraint
// makes a concurrent duplicate submission fail atomically instead of racing a
// check-then-insert sequence.
func (r *AttendanceRepository) CreateAttendance(ctx context.Context, attendance *models.Attendance) (int64, error) {
	var id int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		headSQL, headArgs, err := r.sb.Insert("attendance").
			Columns("attendance_date", "teacher_id", "subject_id").
			Values(attendance.Date, attendance.TeacherID, attendance.SubjectID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create attendance query: %w", err)
		}

		if err := tx.QueryRow(ctx, headSQL, headArgs...).Scan(&id); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrAttendanceAlreadySubmitted
			}
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrSubjectNotFound
			}
			return fmt.Errorf("error creating attendance: %w", err)
		}

		insert := r.sb.Insert("attendance_records").Columns("attendance_id", "student_id", "status")
		for _, record := range attendance.Records {
			insert = insert.Values(id, record.StudentID, record.Status)
		}

		recordsSQL, recordsArgs, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create attendance records query: %w", err)
		}

		if _, err := tx.Exec(ctx, recordsSQL, recordsArgs...); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error creating attendance records: %w", err)
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrAttendanceAlreadySubmitted) {
			logger.Error().Err(err).Msg("Error creating attendance document")
		}
		return 0, err
	}

	return id, nil
}

// GetAttendanceByID retrieves an attendance document with its records
func (r *AttendanceRepository) GetAttendanceByID(ctx context.Context, id int64) (*models.Attendance, error) {
	headSQL, headArgs, err := r.sb.Select("id", "attendance_date", "teacher_id", "subject_id", "created_at").
		From("attendance").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get attendance query: %w", err)
	}

	attendance := &models.Attendance{}
	err = r.db.QueryRow(ctx, headSQL, headArgs...).Scan(
		&attendance.ID, &attendance.Date, &attendance.TeacherID, &attendance.SubjectID, &attendance.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttendanceNotFound
		}
		logger.Error().Err(err).Int64("attendanceID", id).Msg("Error scanning attendance row")
		return nil, fmt.Errorf("error getting attendance by id: %w", err)
	}

	records, err := r.getRecords(ctx, id)
	if err != nil {
		return nil, err
	}
	attendance.Records = records

	return attendance, nil
}

func (r *AttendanceRepository) getRecords(ctx context.Context, attendanceID int64) ([]*models.AttendanceRecord, error) {
	sql, args, err := r.sb.Select("id", "attendance_id", "student_id", "status").
		From("attendance_records").
		Where(squirrel.Eq{"attendance_id": attendanceID}).
		OrderBy("student_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get attendance records query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying attendance records: %w", err)
	}
	defer rows.Close()

	records := []*models.AttendanceRecord{}
	for rows.Next() {
		record := &models.AttendanceRecord{}
		if err := rows.Scan(&record.ID, &record.AttendanceID, &record.StudentID, &record.Status); err != nil {
			return nil, fmt.Errorf("error scanning attendance record row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance record rows: %w", err)
	}

	return records, nil
}

// applyFilter attaches the role-derived and date-window predicates
func applyAttendanceFilter(query squirrel.SelectBuilder, filter AttendanceFilter) squirrel.SelectBuilder {
	if filter.TeacherID > 0 {
		query = query.Where(squirrel.Eq{"a.teacher_id": filter.TeacherID})
	}
	if filter.StudentID > 0 {
		query = query.Where(squirrel.Eq{"ar.student_id": filter.StudentID})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"a.attendance_date": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"a.attendance_date": *filter.To})
	}
	return query
}

// ListAttendance retrieves attendance documents matching the filter, records
// included. The filter is the visibility predicate: it is built from the
// caller's role before the query runs.
func (r *AttendanceRepository) ListAttendance(ctx context.Context, filter AttendanceFilter) ([]*models.Attendance, error) {
	query := r.sb.Select("DISTINCT a.id", "a.attendance_date", "a.teacher_id", "a.subject_id", "a.created_at").
		From("attendance a").
		OrderBy("a.attendance_date DESC", "a.id DESC")
	if filter.StudentID > 0 {
		query = query.Join("attendance_records ar ON ar.attendance_id = a.id")
	}
	query = applyAttendanceFilter(query, filter)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list attendance query")
		return nil, fmt.Errorf("error querying attendance: %w", err)
	}
	defer rows.Close()

	documents := []*models.Attendance{}
	for rows.Next() {
		attendance := &models.Attendance{}
		if err := rows.Scan(&attendance.ID, &attendance.Date, &attendance.TeacherID, &attendance.SubjectID, &attendance.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		documents = append(documents, attendance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}

	for _, attendance := range documents {
		records, err := r.getRecords(ctx, attendance.ID)
		if err != nil {
			return nil, err
		}
		// Students see only their own row inside the document
		if filter.StudentID > 0 {
			own := records[:0]
			for _, record := range records {
				if record.StudentID == filter.StudentID {
					own = append(own, record)
				}
			}
			records = own
		}
		attendance.Records = records
	}

	return documents, nil
}

// UpdateRecordStatus changes a single student's status within a document
func (r *AttendanceRepository) UpdateRecordStatus(ctx context.Context, attendanceID, studentID int64, status models.AttendanceStatus) error {
	sql, args, err := r.sb.Update("attendance_records").
		Set("status", status).
		Where(squirrel.Eq{"attendance_id": attendanceID, "student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update attendance record query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("attendanceID", attendanceID).Int64("studentID", studentID).Msg("Error updating attendance record")
		return fmt.Errorf("error updating attendance record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAttendanceNotFound
	}

	return nil
}

// UpdateSubject changes the subject of a document. The unique constraint
// still applies: moving the document onto an already-submitted (date,
// teacher, subject) triple is rejected.
func (r *AttendanceRepository) UpdateSubject(ctx context.Context, attendanceID, subjectID int64) error {
	sql, args, err := r.sb.Update("attendance").
		Set("subject_id", subjectID).
		Where(squirrel.Eq{"id": attendanceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update attendance subject query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAttendanceAlreadySubmitted
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		logger.Error().Err(err).Int64("attendanceID", attendanceID).Msg("Error updating attendance subject")
		return fmt.Errorf("error updating attendance subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAttendanceNotFound
	}

	return nil
}

// DeleteAttendance removes a document and its records
func (r *AttendanceRepository) DeleteAttendance(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		recordsSQL, recordsArgs, err := r.sb.Delete("attendance_records").
			Where(squirrel.Eq{"attendance_id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete attendance records query: %w", err)
		}
		if _, err := tx.Exec(ctx, recordsSQL, recordsArgs...); err != nil {
			return fmt.Errorf("error deleting attendance records: %w", err)
		}

		headSQL, headArgs, err := r.sb.Delete("attendance").
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete attendance query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, headSQL, headArgs...)
		if err != nil {
			return fmt.Errorf("error deleting attendance: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrAttendanceNotFound
		}

		return nil
	})
}

// Summarize counts present and absent records matching the filter. Derived
// and recomputed per request, never materialized.
func (r *AttendanceRepository) Summarize(ctx context.Context, filter AttendanceFilter) (*models.AttendanceSummary, error) {
	query := r.sb.Select(
		"COUNT(*) FILTER (WHERE ar.status = 'PRESENT')",
		"COUNT(*) FILTER (WHERE ar.status = 'ABSENT')",
	).
		From("attendance a").
		Join("attendance_records ar ON ar.attendance_id = a.id")
	query = applyAttendanceFilter(query, filter)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance summary query: %w", err)
	}

	summary := &models.AttendanceSummary{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&summary.Present, &summary.Absent); err != nil {
		logger.Error().Err(err).Msg("Error computing attendance summary")
		return nil, fmt.Errorf("error computing attendance summary: %w", err)
	}

	return summary, nil
}
