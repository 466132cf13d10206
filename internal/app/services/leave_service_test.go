package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/repositories"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	"github.com/kerems/akademix/internal/pkg/helpers"
)

type fakeLeaveStore struct {
	leaves map[int64]*models.Leave
	nextID int64
}

func newFakeLeaveStore() *fakeLeaveStore {
	return &fakeLeaveStore{leaves: map[int64]*models.Leave{}, nextID: 1}
}

func (f *fakeLeaveStore) CreateLeave(ctx context.Context, leave *models.Leave) (int64, error) {
	stored := *leave
	stored.ID = f.nextID
	stored.Status = models.LeavePending
	f.nextID++
	f.leaves[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeLeaveStore) GetLeaveByID(ctx context.Context, id int64) (*models.Leave, error) {
	leave, ok := f.leaves[id]
	if !ok {
		return nil, apperrors.ErrLeaveNotFound
	}
	return leave, nil
}

func (f *fakeLeaveStore) ListLeaves(ctx context.Context, filter repositories.LeaveFilter) ([]*models.Leave, error) {
	var out []*models.Leave
	for _, leave := range f.leaves {
		if filter.RequesterID != 0 && leave.RequesterID != filter.RequesterID {
			continue
		}
		if filter.RequesterRole != "" && leave.RequesterRole != filter.RequesterRole {
			continue
		}
		out = append(out, leave)
	}
	return out, nil
}

func (f *fakeLeaveStore) UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus) error {
	leave, ok := f.leaves[id]
	if !ok {
		return apperrors.ErrLeaveNotFound
	}
	leave.Status = status
	return nil
}

func (f *fakeLeaveStore) UpdateReason(ctx context.Context, id int64, reason string) error {
	leave, ok := f.leaves[id]
	if !ok {
		return apperrors.ErrLeaveNotFound
	}
	leave.Reason = reason
	return nil
}

type fakeLeaveUserStore struct {
	users map[int64]*models.User
}

func (f *fakeLeaveUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

type leaveFixture struct {
	service LeaveService
	store   *fakeLeaveStore
}

const leaveAdminID int64 = 99

func newLeaveFixture() *leaveFixture {
	store := newFakeLeaveStore()
	users := &fakeLeaveUserStore{users: map[int64]*models.User{
		leaveAdminID: {ID: leaveAdminID, Role: models.RoleAdmin},
		50:          {ID: 50, Role: models.RoleTeacher},
	}}
	return &leaveFixture{
		service: NewLeaveService(store, users, zerolog.Nop()),
		store:   store,
	}
}

func futureDate() string {
	return helpers.Today().AddDate(0, 0, 7).Format(helpers.DateLayout)
}

func TestSubmitStudentLeave(t *testing.T) {
	f := newLeaveFixture()
	caller := Caller{UserID: 10, Role: models.RoleStudent}

	leave, err := f.service.SubmitStudentLeave(context.Background(), caller, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID,
		Date:    futureDate(),
		Reason:  "family event",
	})
	require.NoError(t, err)

	assert.Equal(t, models.LeavePending, leave.Status)
	assert.Equal(t, int64(10), leave.RequesterID)
	assert.Equal(t, models.RoleStudent, leave.RequesterRole)
	require.NotNil(t, leave.AdminID)
	assert.Equal(t, leaveAdminID, *leave.AdminID)
}

func TestSubmitStudentLeavePastDate(t *testing.T) {
	f := newLeaveFixture()
	caller := Caller{UserID: 10, Role: models.RoleStudent}

	past := helpers.Today().AddDate(0, 0, -1).Format(helpers.DateLayout)
	_, err := f.service.SubmitStudentLeave(context.Background(), caller, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID,
		Date:    past,
		Reason:  "too late",
	})
	assert.ErrorIs(t, err, apperrors.ErrLeaveDateInPast)
}

func TestSubmitStudentLeaveToNonAdmin(t *testing.T) {
	f := newLeaveFixture()
	caller := Caller{UserID: 10, Role: models.RoleStudent}

	_, err := f.service.SubmitStudentLeave(context.Background(), caller, &dto.SubmitStudentLeaveRequest{
		AdminID: 50, // a teacher
		Date:    futureDate(),
		Reason:  "misrouted",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSubmitTeacherLeave(t *testing.T) {
	f := newLeaveFixture()
	caller := Caller{UserID: 50, Role: models.RoleTeacher}

	leave, err := f.service.SubmitTeacherLeave(context.Background(), caller, &dto.SubmitTeacherLeaveRequest{
		Date:   futureDate(),
		Reason: "conference",
	})
	require.NoError(t, err)

	assert.Equal(t, models.LeavePending, leave.Status)
	assert.Equal(t, models.RoleTeacher, leave.RequesterRole)
	assert.Nil(t, leave.AdminID)
}

func TestUpdateLeaveStatusByAdmin(t *testing.T) {
	f := newLeaveFixture()
	student := Caller{UserID: 10, Role: models.RoleStudent}

	leave, err := f.service.SubmitStudentLeave(context.Background(), student, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID,
		Date:    futureDate(),
		Reason:  "family event",
	})
	require.NoError(t, err)

	admin := Caller{UserID: leaveAdminID, Role: models.RoleAdmin}
	approved := models.LeaveApproved
	updated, err := f.service.UpdateLeave(context.Background(), admin, leave.ID, &dto.UpdateLeaveRequest{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, updated.Status)
}

func TestUpdateLeaveStatusByNonAdmin(t *testing.T) {
	f := newLeaveFixture()
	student := Caller{UserID: 10, Role: models.RoleStudent}

	leave, err := f.service.SubmitStudentLeave(context.Background(), student, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID,
		Date:    futureDate(),
		Reason:  "family event",
	})
	require.NoError(t, err)

	approved := models.LeaveApproved
	_, err = f.service.UpdateLeave(context.Background(), student, leave.ID, &dto.UpdateLeaveRequest{Status: &approved})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, models.LeavePending, f.store.leaves[leave.ID].Status)
}

func TestUpdateLeaveReasonWhilePending(t *testing.T) {
	f := newLeaveFixture()
	student := Caller{UserID: 10, Role: models.RoleStudent}

	leave, err := f.service.SubmitStudentLeave(context.Background(), student, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID,
		Date:    futureDate(),
		Reason:  "family event",
	})
	require.NoError(t, err)

	reason := "family event, two days"
	updated, err := f.service.UpdateLeave(context.Background(), student, leave.ID, &dto.UpdateLeaveRequest{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, reason, updated.Reason)
}

func TestUpdateLeaveReasonAfterDecision(t *testing.T) {
	f := newLeaveFixture()
	student := Caller{UserID: 10, Role: models.RoleStudent}

	leave, err := f.service.SubmitStudentLeave(context.Background(), student, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID,
		Date:    futureDate(),
		Reason:  "family event",
	})
	require.NoError(t, err)
	f.store.leaves[leave.ID].Status = models.LeaveRejected

	reason := "please reconsider"
	_, err = f.service.UpdateLeave(context.Background(), student, leave.ID, &dto.UpdateLeaveRequest{Reason: &reason})
	assert.ErrorIs(t, err, apperrors.ErrLeaveNotEditable)
}

func TestUpdateLeaveReasonByStranger(t *testing.T) {
	f := newLeaveFixture()
	student := Caller{UserID: 10, Role: models.RoleStudent}

	leave, err := f.service.SubmitStudentLeave(context.Background(), student, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID,
		Date:    futureDate(),
		Reason:  "family event",
	})
	require.NoError(t, err)

	other := Caller{UserID: 11, Role: models.RoleStudent}
	reason := "hijacked"
	_, err = f.service.UpdateLeave(context.Background(), other, leave.ID, &dto.UpdateLeaveRequest{Reason: &reason})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUpdateLeaveNoFields(t *testing.T) {
	f := newLeaveFixture()
	admin := Caller{UserID: leaveAdminID, Role: models.RoleAdmin}

	f.store.leaves[1] = &models.Leave{ID: 1, RequesterID: 10, Status: models.LeavePending, Date: time.Now()}
	f.store.nextID = 2

	_, err := f.service.UpdateLeave(context.Background(), admin, 1, &dto.UpdateLeaveRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListLeavesScoping(t *testing.T) {
	f := newLeaveFixture()
	studentA := Caller{UserID: 10, Role: models.RoleStudent}
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	_, err := f.service.SubmitStudentLeave(context.Background(), studentA, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID, Date: futureDate(), Reason: "a",
	})
	require.NoError(t, err)
	_, err = f.service.SubmitTeacherLeave(context.Background(), teacher, &dto.SubmitTeacherLeaveRequest{
		Date: futureDate(), Reason: "b",
	})
	require.NoError(t, err)

	own, err := f.service.ListLeaves(context.Background(), studentA, "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, int64(10), own[0].RequesterID)

	admin := Caller{UserID: leaveAdminID, Role: models.RoleAdmin}
	all, err := f.service.ListLeaves(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	teachersOnly, err := f.service.ListLeaves(context.Background(), admin, models.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, teachersOnly, 1)
	assert.Equal(t, models.RoleTeacher, teachersOnly[0].RequesterRole)

	// The role filter belongs to admins; other callers stay scoped to themselves
	scoped, err := f.service.ListLeaves(context.Background(), studentA, models.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, int64(10), scoped[0].RequesterID)

	_, err = f.service.ListLeaves(context.Background(), admin, models.Role("JANITOR"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

// An update carrying both fields must not decide the status when the reason
// edit is not allowed.
func TestUpdateLeaveBothFieldsRejectedAtomically(t *testing.T) {
	f := newLeaveFixture()
	student := Caller{UserID: 10, Role: models.RoleStudent}

	leave, err := f.service.SubmitStudentLeave(context.Background(), student, &dto.SubmitStudentLeaveRequest{
		AdminID: leaveAdminID,
		Date:    futureDate(),
		Reason:  "family event",
	})
	require.NoError(t, err)

	admin := Caller{UserID: leaveAdminID, Role: models.RoleAdmin}
	approved := models.LeaveApproved
	reason := "not yours to edit"
	_, err = f.service.UpdateLeave(context.Background(), admin, leave.ID, &dto.UpdateLeaveRequest{
		Status: &approved,
		Reason: &reason,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, models.LeavePending, f.store.leaves[leave.ID].Status)
	assert.Equal(t, "family event", f.store.leaves[leave.ID].Reason)
}
