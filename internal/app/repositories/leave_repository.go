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

// LeaveFilter narrows leave queries. Zero fields are ignored.
type LeaveFilter struct {
	RequesterID   int64
	RequesterRole models.Role
}

// LeaveRepository handles leave request database operations
type LeaveRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLeaveRepository creates a new LeaveRepository
func NewLeaveRepository(db *pgxpool.Pool) *LeaveRepository {
	return &LeaveRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateLeave creates a new leave request. Every leave is born PENDING.
func (r *LeaveRepository) CreateLeave(ctx context.Context, leave *models.Leave) (int64, error) {
	sql, args, err := r.sb.Insert("leaves").
		Columns("requester_id", "requester_role", "admin_id", "leave_date", "reason", "status").
		Values(leave.RequesterID, leave.RequesterRole, leave.AdminID, leave.Date, leave.Reason, models.LeavePending).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create leave query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error executing create leave query")
		return 0, fmt.Errorf("error creating leave: %w", err)
	}

	return id, nil
}

// GetLeaveByID retrieves a leave request by ID
func (r *LeaveRepository) GetLeaveByID(ctx context.Context, id int64) (*models.Leave, error) {
	sql, args, err := r.sb.Select("id", "requester_id", "requester_role", "admin_id", "leave_date", "reason", "status", "created_at").
		From("leaves").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get leave query: %w", err)
	}

	leave := &models.Leave{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&leave.ID, &leave.RequesterID, &leave.RequesterRole, &leave.AdminID,
		&leave.Date, &leave.Reason, &leave.Status, &leave.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeaveNotFound
		}
		logger.Error().Err(err).Int64("leaveID", id).Msg("Error scanning leave row")
		return nil, fmt.Errorf("error getting leave by id: %w", err)
	}

	return leave, nil
}

// ListLeaves retrieves leave requests matching the filter, newest first
func (r *LeaveRepository) ListLeaves(ctx context.Context, filter LeaveFilter) ([]*models.Leave, error) {
	query := r.sb.Select("id", "requester_id", "requester_role", "admin_id", "leave_date", "reason", "status", "created_at").
		From("leaves").
		OrderBy("created_at DESC", "id DESC")
	if filter.RequesterID > 0 {
		query = query.Where(squirrel.Eq{"requester_id": filter.RequesterID})
	}
	if filter.RequesterRole != "" {
		query = query.Where(squirrel.Eq{"requester_role": filter.RequesterRole})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list leaves query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list leaves query")
		return nil, fmt.Errorf("error querying leaves: %w", err)
	}
	defer rows.Close()

	leaves := []*models.Leave{}
	for rows.Next() {
		leave := &models.Leave{}
		if err := rows.Scan(
			&leave.ID, &leave.RequesterID, &leave.RequesterRole, &leave.AdminID,
			&leave.Date, &leave.Reason, &leave.Status, &leave.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning leave row: %w", err)
		}
		leaves = append(leaves, leave)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave rows: %w", err)
	}

	return leaves, nil
}

// UpdateStatus writes a status value. The transition graph is not restricted
// here; the generic update endpoint can write any enum value regardless of
// the current state.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus) error {
	sql, args, err := r.sb.Update("leaves").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update leave status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("leaveID", id).Msg("Error updating leave status")
		return fmt.Errorf("error updating leave status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeaveNotFound
	}

	return nil
}

// UpdateReason rewrites the reason text of a leave request
func (r *LeaveRepository) UpdateReason(ctx context.Context, id int64, reason string) error {
	sql, args, err := r.sb.Update("leaves").
		Set("reason", reason).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update leave reason query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("leaveID", id).Msg("Error updating leave reason")
		return fmt.Errorf("error updating leave reason: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeaveNotFound
	}

	return nil
}
