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

type attendanceStore interface {
	CreateAttendance(ctx context.Context, attendance *models.Attendance) (int64, error)
	GetAttendanceByID(ctx context.Context, id int64) (*models.Attendance, error)
	ListAttendance(ctx context.Context, filter repositories.AttendanceFilter) ([]*models.Attendance, error)
	UpdateRecordStatus(ctx context.Context, attendanceID, studentID int64, status models.AttendanceStatus) error
	UpdateSubject(ctx context.Context, attendanceID, subjectID int64) error
	DeleteAttendance(ctx context.Context, id int64) error
	Summarize(ctx context.Context, filter repositories.AttendanceFilter) (*models.AttendanceSummary, error)
}

// profileResolver maps a caller's user id to their role profile id
type profileResolver interface {
	GetTeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
	GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

// AttendanceService defines the interface for attendance operations
type AttendanceService interface {
	SubmitAttendance(ctx context.Context, caller Caller, req *dto.SubmitAttendanceRequest) (*models.Attendance, error)
	UpdateAttendance(ctx context.Context, caller Caller, id int64, req *dto.UpdateAttendanceRequest) (*models.Attendance, error)
	DeleteAttendance(ctx context.Context, caller Caller, id int64) error
	ListAttendance(ctx context.Context, caller Caller) ([]*models.Attendance, error)
	Summarize(ctx context.Context, caller Caller, query *dto.AttendanceSummaryQuery) (*models.AttendanceSummary, error)
}

// attendanceServiceImpl implements the AttendanceService interface
type attendanceServiceImpl struct {
	attendance attendanceStore
	profiles   profileResolver
	logger     zerolog.Logger
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(attendance attendanceStore, profiles profileResolver, logger zerolog.Logger) AttendanceService {
	return &attendanceServiceImpl{
		attendance: attendance,
		profiles:   profiles,
		logger:     logger,
	}
}

// SubmitAttendance stores one attendance document for the calling teacher.
// A second submission for the same (date, subject) fails on the store's
// unique constraint.
func (s *attendanceServiceImpl) SubmitAttendance(ctx context.Context, caller Caller, req *dto.SubmitAttendanceRequest) (*models.Attendance, error) {
	// Only teachers submit; admins hold the capability for edits and deletes
	if caller.Role != models.RoleTeacher {
		return nil, apperrors.ErrPermissionDenied
	}

	if len(req.Records) == 0 {
		return nil, apperrors.ErrAttendanceRecordsEmpty
	}

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithField("date")
	}

	for _, status := range req.Records {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("status must be PRESENT or ABSENT").WithField("records")
		}
	}

	teacher, err := s.profiles.GetTeacherByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	attendance := &models.Attendance{
		Date:      date,
		TeacherID: teacher.ID,
		SubjectID: req.SubjectID,
	}
	for studentID, status := range req.Records {
		attendance.Records = append(attendance.Records, &models.AttendanceRecord{
			StudentID: studentID,
			Status:    status,
		})
	}

	id, err := s.attendance.CreateAttendance(ctx, attendance)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("attendanceID", id).Int64("teacherID", teacher.ID).Time("date", date).Msg("Attendance submitted")

	return s.attendance.GetAttendanceByID(ctx, id)
}

// UpdateAttendance changes one student's status or the subject field inside an
// existing document. Teachers may only touch their own documents.
func (s *attendanceServiceImpl) UpdateAttendance(ctx context.Context, caller Caller, id int64, req *dto.UpdateAttendanceRequest) (*models.Attendance, error) {
	attendance, err := s.attendance.GetAttendanceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, caller, attendance.TeacherID); err != nil {
		return nil, err
	}

	if req.SubjectID == nil && (req.StudentID == nil || req.Status == nil) {
		return nil, apperrors.NewValidationError("provide subjectId, or both studentId and status")
	}

	if req.StudentID != nil && req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.NewValidationError("status must be PRESENT or ABSENT").WithField("status")
		}
		if err := s.attendance.UpdateRecordStatus(ctx, id, *req.StudentID, *req.Status); err != nil {
			return nil, err
		}
	}

	if req.SubjectID != nil {
		if err := s.attendance.UpdateSubject(ctx, id, *req.SubjectID); err != nil {
			return nil, err
		}
	}

	return s.attendance.GetAttendanceByID(ctx, id)
}

// DeleteAttendance removes a whole document. Teachers may only delete their
// own documents.
func (s *attendanceServiceImpl) DeleteAttendance(ctx context.Context, caller Caller, id int64) error {
	attendance, err := s.attendance.GetAttendanceByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.checkOwnership(ctx, caller, attendance.TeacherID); err != nil {
		return err
	}

	if err := s.attendance.DeleteAttendance(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("attendanceID", id).Msg("Attendance deleted")
	return nil
}

// ListAttendance returns attendance documents scoped by the caller's role:
// admins see everything, teachers their own documents, students only the
// documents containing their own record rows.
func (s *attendanceServiceImpl) ListAttendance(ctx context.Context, caller Caller) ([]*models.Attendance, error) {
	filter, err := s.scopeFilter(ctx, caller, repositories.AttendanceFilter{})
	if err != nil {
		return nil, err
	}
	return s.attendance.ListAttendance(ctx, filter)
}

// Summarize returns present/absent counts over an optional date window,
// scoped the same way as ListAttendance
func (s *attendanceServiceImpl) Summarize(ctx context.Context, caller Caller, query *dto.AttendanceSummaryQuery) (*models.AttendanceSummary, error) {
	var from, to *time.Time
	if query.From != "" {
		t, err := helpers.ParseDate(query.From)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error()).WithField("from")
		}
		from = &t
	}
	if query.To != "" {
		t, err := helpers.ParseDate(query.To)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error()).WithField("to")
		}
		to = &t
	}

	filter, err := s.scopeFilter(ctx, caller, repositories.AttendanceFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	return s.attendance.Summarize(ctx, filter)
}

func (s *attendanceServiceImpl) scopeFilter(ctx context.Context, caller Caller, filter repositories.AttendanceFilter) (repositories.AttendanceFilter, error) {
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

// checkOwnership allows admins through and requires teachers to own the
// document
func (s *attendanceServiceImpl) checkOwnership(ctx context.Context, caller Caller, teacherID int64) error {
	if caller.Role == models.RoleAdmin {
		return nil
	}

	teacher, err := s.profiles.GetTeacherByUserID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if teacher.ID != teacherID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
