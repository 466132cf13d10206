package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/app/repositories"
	"github.com/kerems/akademix/internal/pkg/apperrors"
)

type fakeAttendanceStore struct {
	docs       map[int64]*models.Attendance
	nextID     int64
	lastFilter repositories.AttendanceFilter
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{docs: map[int64]*models.Attendance{}, nextID: 1}
}

func (f *fakeAttendanceStore) CreateAttendance(ctx context.Context, attendance *models.Attendance) (int64, error) {
	for _, existing := range f.docs {
		if existing.Date.Equal(attendance.Date) &&
			existing.TeacherID == attendance.TeacherID &&
			existing.SubjectID == attendance.SubjectID {
			return 0, apperrors.ErrAttendanceAlreadySubmitted
		}
	}
	stored := *attendance
	stored.ID = f.nextID
	f.nextID++
	f.docs[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeAttendanceStore) GetAttendanceByID(ctx context.Context, id int64) (*models.Attendance, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, apperrors.ErrAttendanceNotFound
	}
	return doc, nil
}

func (f *fakeAttendanceStore) ListAttendance(ctx context.Context, filter repositories.AttendanceFilter) ([]*models.Attendance, error) {
	f.lastFilter = filter
	var out []*models.Attendance
	for _, doc := range f.docs {
		if filter.TeacherID != 0 && doc.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (f *fakeAttendanceStore) UpdateRecordStatus(ctx context.Context, attendanceID, studentID int64, status models.AttendanceStatus) error {
	doc, ok := f.docs[attendanceID]
	if !ok {
		return apperrors.ErrAttendanceNotFound
	}
	for _, record := range doc.Records {
		if record.StudentID == studentID {
			record.Status = status
			return nil
		}
	}
	return apperrors.ErrAttendanceNotFound
}

func (f *fakeAttendanceStore) UpdateSubject(ctx context.Context, attendanceID, subjectID int64) error {
	doc, ok := f.docs[attendanceID]
	if !ok {
		return apperrors.ErrAttendanceNotFound
	}
	doc.SubjectID = subjectID
	return nil
}

func (f *fakeAttendanceStore) DeleteAttendance(ctx context.Context, id int64) error {
	if _, ok := f.docs[id]; !ok {
		return apperrors.ErrAttendanceNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeAttendanceStore) Summarize(ctx context.Context, filter repositories.AttendanceFilter) (*models.AttendanceSummary, error) {
	f.lastFilter = filter
	return &models.AttendanceSummary{}, nil
}

// fakeProfiles maps user ids to teacher/student profile ids
type fakeProfiles struct {
	teachers map[int64]*models.Teacher // keyed by user id
	students map[int64]*models.Student
}

func (f *fakeProfiles) GetTeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	teacher, ok := f.teachers[userID]
	if !ok {
		return nil, apperrors.ErrTeacherNotFound
	}
	return teacher, nil
}

func (f *fakeProfiles) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	student, ok := f.students[userID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

type attendanceFixture struct {
	service AttendanceService
	store   *fakeAttendanceStore
}

// user 50 is teacher profile 5, user 51 teacher profile 6, user 10 student profile 1
func newAttendanceFixture() *attendanceFixture {
	store := newFakeAttendanceStore()
	profiles := &fakeProfiles{
		teachers: map[int64]*models.Teacher{
			50: {ID: 5, UserID: 50},
			51: {ID: 6, UserID: 51},
		},
		students: map[int64]*models.Student{
			10: {ID: 1, UserID: 10},
		},
	}
	return &attendanceFixture{
		service: NewAttendanceService(store, profiles, zerolog.Nop()),
		store:   store,
	}
}

func submitRequest() *dto.SubmitAttendanceRequest {
	return &dto.SubmitAttendanceRequest{
		Date:      "2026-03-02",
		SubjectID: 7,
		Records: map[int64]models.AttendanceStatus{
			1: models.AttendancePresent,
			2: models.AttendanceAbsent,
		},
	}
}

func TestSubmitAttendance(t *testing.T) {
	f := newAttendanceFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	doc, err := f.service.SubmitAttendance(context.Background(), teacher, submitRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(5), doc.TeacherID)
	assert.Equal(t, int64(7), doc.SubjectID)
	assert.Len(t, doc.Records, 2)
}

// Submission belongs to teachers; an admin passes the route gate for edits
// and deletes but must not create documents.
func TestSubmitAttendanceNonTeacher(t *testing.T) {
	f := newAttendanceFixture()

	for _, caller := range []Caller{
		{UserID: 99, Role: models.RoleAdmin},
		{UserID: 10, Role: models.RoleStudent},
	} {
		_, err := f.service.SubmitAttendance(context.Background(), caller, submitRequest())
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	}
	assert.Empty(t, f.store.docs)
}

func TestSubmitAttendanceEmptyRecords(t *testing.T) {
	f := newAttendanceFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	req := submitRequest()
	req.Records = nil
	_, err := f.service.SubmitAttendance(context.Background(), teacher, req)
	assert.ErrorIs(t, err, apperrors.ErrAttendanceRecordsEmpty)
}

func TestSubmitAttendanceBadStatus(t *testing.T) {
	f := newAttendanceFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	req := submitRequest()
	req.Records[3] = models.AttendanceStatus("LATE")
	_, err := f.service.SubmitAttendance(context.Background(), teacher, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSubmitAttendanceTwice(t *testing.T) {
	f := newAttendanceFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	_, err := f.service.SubmitAttendance(context.Background(), teacher, submitRequest())
	require.NoError(t, err)

	_, err = f.service.SubmitAttendance(context.Background(), teacher, submitRequest())
	assert.ErrorIs(t, err, apperrors.ErrAttendanceAlreadySubmitted)
}

func TestUpdateAttendanceRecordStatus(t *testing.T) {
	f := newAttendanceFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	doc, err := f.service.SubmitAttendance(context.Background(), teacher, submitRequest())
	require.NoError(t, err)

	studentID := int64(2)
	present := models.AttendancePresent
	updated, err := f.service.UpdateAttendance(context.Background(), teacher, doc.ID, &dto.UpdateAttendanceRequest{
		StudentID: &studentID,
		Status:    &present,
	})
	require.NoError(t, err)

	for _, record := range updated.Records {
		if record.StudentID == studentID {
			assert.Equal(t, models.AttendancePresent, record.Status)
		}
	}
}

func TestUpdateAttendanceNotOwner(t *testing.T) {
	f := newAttendanceFixture()
	owner := Caller{UserID: 50, Role: models.RoleTeacher}
	other := Caller{UserID: 51, Role: models.RoleTeacher}

	doc, err := f.service.SubmitAttendance(context.Background(), owner, submitRequest())
	require.NoError(t, err)

	subjectID := int64(8)
	_, err = f.service.UpdateAttendance(context.Background(), other, doc.ID, &dto.UpdateAttendanceRequest{
		SubjectID: &subjectID,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUpdateAttendanceByAdmin(t *testing.T) {
	f := newAttendanceFixture()
	owner := Caller{UserID: 50, Role: models.RoleTeacher}
	admin := Caller{UserID: 99, Role: models.RoleAdmin}

	doc, err := f.service.SubmitAttendance(context.Background(), owner, submitRequest())
	require.NoError(t, err)

	subjectID := int64(8)
	updated, err := f.service.UpdateAttendance(context.Background(), admin, doc.ID, &dto.UpdateAttendanceRequest{
		SubjectID: &subjectID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), updated.SubjectID)
}

func TestUpdateAttendanceNoFields(t *testing.T) {
	f := newAttendanceFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	doc, err := f.service.SubmitAttendance(context.Background(), teacher, submitRequest())
	require.NoError(t, err)

	// studentId without a status is not enough
	studentID := int64(1)
	_, err = f.service.UpdateAttendance(context.Background(), teacher, doc.ID, &dto.UpdateAttendanceRequest{
		StudentID: &studentID,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteAttendanceNotOwner(t *testing.T) {
	f := newAttendanceFixture()
	owner := Caller{UserID: 50, Role: models.RoleTeacher}
	other := Caller{UserID: 51, Role: models.RoleTeacher}

	doc, err := f.service.SubmitAttendance(context.Background(), owner, submitRequest())
	require.NoError(t, err)

	err = f.service.DeleteAttendance(context.Background(), other, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Len(t, f.store.docs, 1)
}

func TestListAttendanceScoping(t *testing.T) {
	f := newAttendanceFixture()

	tests := []struct {
		name          string
		caller        Caller
		wantTeacherID int64
		wantStudentID int64
	}{
		{"admin sees everything", Caller{UserID: 99, Role: models.RoleAdmin}, 0, 0},
		{"teacher scoped to own documents", Caller{UserID: 50, Role: models.RoleTeacher}, 5, 0},
		{"student scoped to own records", Caller{UserID: 10, Role: models.RoleStudent}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.ListAttendance(context.Background(), tt.caller)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTeacherID, f.store.lastFilter.TeacherID)
			assert.Equal(t, tt.wantStudentID, f.store.lastFilter.StudentID)
		})
	}
}

func TestSummarizeDateWindow(t *testing.T) {
	f := newAttendanceFixture()
	admin := Caller{UserID: 99, Role: models.RoleAdmin}

	_, err := f.service.Summarize(context.Background(), admin, &dto.AttendanceSummaryQuery{
		From: "2026-03-01",
		To:   "2026-03-31",
	})
	require.NoError(t, err)
	require.NotNil(t, f.store.lastFilter.From)
	require.NotNil(t, f.store.lastFilter.To)
	assert.Equal(t, "2026-03-01", f.store.lastFilter.From.Format("2006-01-02"))

	_, err = f.service.Summarize(context.Background(), admin, &dto.AttendanceSummaryQuery{From: "not-a-date"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
