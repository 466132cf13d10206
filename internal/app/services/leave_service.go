package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/repositories"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	"github.com/kerems/akademix/internal/pkg/helpers"
)

type leaveStore interface {
	CreateLeave(ctx context.Context, leave *models.Leave) (int64, error)
	GetLeaveByID(ctx context.Context, id int64) (*models.Leave, error)
	ListLeaves(ctx context.Context, filter repositories.LeaveFilter) ([]*models.Leave, error)
	UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus) error
	UpdateReason(ctx context.Context, id int64, reason string) error
}

type leaveUserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// LeaveService defines the interface for leave workflow operations
type LeaveService interface {
	SubmitStudentLeave(ctx context.Context, caller Caller, req *dto.SubmitStudentLeaveRequest) (*models.Leave, error)
	SubmitTeacherLeave(ctx context.Context, caller Caller, req *dto.SubmitTeacherLeaveRequest) (*models.Leave, error)
	UpdateLeave(ctx context.Context, caller Caller, id int64, req *dto.UpdateLeaveRequest) (*models.Leave, error)
	ListLeaves(ctx context.Context, caller Caller, requesterRole models.Role) ([]*models.Leave, error)
}

// leaveServiceImpl implements the LeaveService interface
type leaveServiceImpl struct {
	leaves leaveStore
	users  leaveUserStore
	logger zerolog.Logger
}

// NewLeaveService creates a new leave service instance
func NewLeaveService(leaves leaveStore, users leaveUserStore, logger zerolog.Logger) LeaveService {
	return &leaveServiceImpl{
		leaves: leaves,
		users:  users,
		logger: logger,
	}
}

// SubmitStudentLeave files a student leave request addressed to an admin.
// The request is born PENDING.
func (s *leaveServiceImpl) SubmitStudentLeave(ctx context.Context, caller Caller, req *dto.SubmitStudentLeaveRequest) (*models.Leave, error) {
	date, err := s.parseLeaveDate(req.Date)
	if err != nil {
		return nil, err
	}

	admin, err := s.users.GetUserByID(ctx, req.AdminID)
	if err != nil {
		return nil, err
	}
	if admin.Role != models.RoleAdmin {
		return nil, apperrors.NewValidationError("adminId must reference an admin account").WithField("adminId")
	}

	leave := &models.Leave{
		RequesterID:   caller.UserID,
		RequesterRole: models.RoleStudent,
		AdminID:       &req.AdminID,
		Date:          date,
		Reason:        req.Reason,
	}

	id, err := s.leaves.CreateLeave(ctx, leave)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("leaveID", id).Int64("requesterID", caller.UserID).Msg("Student leave submitted")

	return s.leaves.GetLeaveByID(ctx, id)
}

// SubmitTeacherLeave files a teacher leave request. No admin routing; any
// admin may decide it.
func (s *leaveServiceImpl) SubmitTeacherLeave(ctx context.Context, caller Caller, req *dto.SubmitTeacherLeaveRequest) (*models.Leave, error) {
	date, err := s.parseLeaveDate(req.Date)
	if err != nil {
		return nil, err
	}

	leave := &models.Leave{
		RequesterID:   caller.UserID,
		RequesterRole: models.RoleTeacher,
		Date:          date,
		Reason:        req.Reason,
	}

	id, err := s.leaves.CreateLeave(ctx, leave)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("leaveID", id).Int64("requesterID", caller.UserID).Msg("Teacher leave submitted")

	return s.leaves.GetLeaveByID(ctx, id)
}

// UpdateLeave drives both sides of the workflow. An admin may write any
// status from the enum; the requester may edit the reason while the request
// is still PENDING.
func (s *leaveServiceImpl) UpdateLeave(ctx context.Context, caller Caller, id int64, req *dto.UpdateLeaveRequest) (*models.Leave, error) {
	leave, err := s.leaves.GetLeaveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status == nil && req.Reason == nil {
		return nil, apperrors.NewValidationError("provide status or reason")
	}

	// Check both fields' authorities up front so a request carrying both
	// cannot write one and then fail the other
	if req.Status != nil {
		if caller.Role != models.RoleAdmin {
			return nil, apperrors.ErrPermissionDenied
		}
		if !req.Status.Valid() {
			return nil, apperrors.NewValidationError("status must be PENDING, APPROVED or REJECTED").WithField("status")
		}
	}
	if req.Reason != nil {
		if leave.RequesterID != caller.UserID {
			return nil, apperrors.ErrPermissionDenied
		}
		if leave.Status != models.LeavePending {
			return nil, apperrors.ErrLeaveNotEditable
		}
	}

	if req.Status != nil {
		if err := s.leaves.UpdateStatus(ctx, id, *req.Status); err != nil {
			return nil, err
		}
		s.logger.Info().Int64("leaveID", id).Str("status", string(*req.Status)).Msg("Leave decided")
	}

	if req.Reason != nil {
		if err := s.leaves.UpdateReason(ctx, id, *req.Reason); err != nil {
			return nil, err
		}
	}

	return s.leaves.GetLeaveByID(ctx, id)
}

// ListLeaves returns leave requests scoped by the caller's role: admins see
// all, optionally narrowed to one requester role; teachers and students see
// their own requests
func (s *leaveServiceImpl) ListLeaves(ctx context.Context, caller Caller, requesterRole models.Role) ([]*models.Leave, error) {
	var filter repositories.LeaveFilter
	if caller.Role == models.RoleAdmin {
		if requesterRole != "" {
			if !requesterRole.Valid() {
				return nil, apperrors.NewValidationError("requesterRole must be STUDENT or TEACHER").WithField("requesterRole")
			}
			filter.RequesterRole = requesterRole
		}
	} else {
		filter.RequesterID = caller.UserID
	}
	return s.leaves.ListLeaves(ctx, filter)
}

func (s *leaveServiceImpl) parseLeaveDate(raw string) (time.Time, error) {
	date, err := helpers.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(err.Error()).WithField("date")
	}
	if date.Before(helpers.Today()) {
		return time.Time{}, apperrors.ErrLeaveDateInPast
	}
	return date, nil
}
