package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/pkg/apperrors"
)

type fakeRosterStudentStore struct {
	students map[int64]*models.Student
	nextID   int64
}

func newFakeRosterStudentStore() *fakeRosterStudentStore {
	return &fakeRosterStudentStore{students: map[int64]*models.Student{}, nextID: 1}
}

func (f *fakeRosterStudentStore) CreateStudent(ctx context.Context, tx pgx.Tx, student *models.Student) (int64, error) {
	stored := *student
	stored.ID = f.nextID
	f.nextID++
	f.students[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeRosterStudentStore) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeRosterStudentStore) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	for _, student := range f.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeRosterStudentStore) ListStudents(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error) {
	var out []*models.Student
	for _, student := range f.students {
		out = append(out, student)
	}
	return out, int64(len(f.students)), nil
}

func (f *fakeRosterStudentStore) UpdateStudentFields(ctx context.Context, tx pgx.Tx, id int64, fields map[string]interface{}) error {
	student, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if v, ok := fields["class_name"]; ok {
		student.ClassName = v.(string)
	}
	if v, ok := fields["section"]; ok {
		student.Section = v.(string)
	}
	return nil
}

type fakeRosterUserStore struct {
	nextID      int64
	deleted     []int64
	deleteErr   error
	userUpdates map[int64]map[string]interface{}
}

func newFakeRosterUserStore() *fakeRosterUserStore {
	return &fakeRosterUserStore{nextID: 100, userUpdates: map[int64]map[string]interface{}{}}
}

func (f *fakeRosterUserStore) CreateUser(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error) {
	f.nextID++
	user.ID = f.nextID
	return user.ID, nil
}

func (f *fakeRosterUserStore) UpdateUserFields(ctx context.Context, tx pgx.Tx, id int64, fields map[string]interface{}) error {
	f.userUpdates[id] = fields
	return nil
}

func (f *fakeRosterUserStore) DeleteUser(ctx context.Context, tx pgx.Tx, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type studentFixture struct {
	service  StudentService
	students *fakeRosterStudentStore
	users    *fakeRosterUserStore
}

func newStudentFixture() *studentFixture {
	students := newFakeRosterStudentStore()
	users := newFakeRosterUserStore()
	return &studentFixture{
		service:  NewStudentService(fakeTx{}, students, users, zerolog.Nop()),
		students: students,
		users:    users,
	}
}

func TestCreateStudent(t *testing.T) {
	f := newStudentFixture()

	student, err := f.service.CreateStudent(context.Background(), &dto.CreateStudentRequest{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "Ada@School.EDU",
		Password:         "longenough",
		EnrollmentNumber: "EN-200",
		ClassName:        "11",
		Section:          "B",
	})
	require.NoError(t, err)

	assert.Equal(t, "EN-200", student.EnrollmentNumber)
	assert.NotZero(t, student.UserID)
}

func TestGetStudentSelfOnly(t *testing.T) {
	f := newStudentFixture()
	f.students.students[1] = &models.Student{ID: 1, UserID: 10, EnrollmentNumber: "EN-1"}
	f.students.students[2] = &models.Student{ID: 2, UserID: 11, EnrollmentNumber: "EN-2"}
	f.students.nextID = 3

	tests := []struct {
		name    string
		caller  Caller
		wantErr error
	}{
		{"student reads own profile", Caller{UserID: 10, Role: models.RoleStudent}, nil},
		{"student blocked from peer profile", Caller{UserID: 11, Role: models.RoleStudent}, apperrors.ErrPermissionDenied},
		{"teacher reads any profile", Caller{UserID: 50, Role: models.RoleTeacher}, nil},
		{"admin reads any profile", Caller{UserID: 99, Role: models.RoleAdmin}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.GetStudent(context.Background(), tt.caller, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// The roster listing is role scoped: a student caller gets exactly their own
// row, never classmates' profiles.
func TestListStudentsScoping(t *testing.T) {
	f := newStudentFixture()
	f.students.students[1] = &models.Student{ID: 1, UserID: 10, EnrollmentNumber: "EN-1"}
	f.students.students[2] = &models.Student{ID: 2, UserID: 11, EnrollmentNumber: "EN-2"}
	f.students.nextID = 3

	own, pagination, err := f.service.ListStudents(context.Background(), Caller{UserID: 10, Role: models.RoleStudent}, 1, 20)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "EN-1", own[0].EnrollmentNumber)
	assert.Equal(t, int64(1), pagination.TotalItems)

	all, pagination, err := f.service.ListStudents(context.Background(), Caller{UserID: 99, Role: models.RoleAdmin}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)

	teacherView, _, err := f.service.ListStudents(context.Background(), Caller{UserID: 50, Role: models.RoleTeacher}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, teacherView, 2)
}

func TestGetStudentNotFound(t *testing.T) {
	f := newStudentFixture()

	_, err := f.service.GetStudent(context.Background(), Caller{UserID: 99, Role: models.RoleAdmin}, 42)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestUpdateStudentSplitsColumns(t *testing.T) {
	f := newStudentFixture()
	f.students.students[1] = &models.Student{ID: 1, UserID: 10, ClassName: "10"}
	f.students.nextID = 2

	first := "Grace"
	class := "11"
	updated, err := f.service.UpdateStudent(context.Background(), 1, &dto.UpdateStudentRequest{
		FirstName: &first,
		ClassName: &class,
	})
	require.NoError(t, err)

	assert.Equal(t, "11", updated.ClassName)
	require.Contains(t, f.users.userUpdates, int64(10))
	assert.Equal(t, "Grace", f.users.userUpdates[10]["first_name"])
}

func TestDeleteStudent(t *testing.T) {
	f := newStudentFixture()
	f.students.students[1] = &models.Student{ID: 1, UserID: 10}
	f.students.nextID = 2

	err := f.service.DeleteStudent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, f.users.deleted)
}

// A student referenced by attendance or result rows cannot be removed; the
// database refuses and the service reports a conflict.
func TestDeleteStudentWithHistory(t *testing.T) {
	f := newStudentFixture()
	f.students.students[1] = &models.Student{ID: 1, UserID: 10}
	f.students.nextID = 2
	f.users.deleteErr = fmt.Errorf("delete user: %w", &pgconn.PgError{Code: "23503"})

	err := f.service.DeleteStudent(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Contains(t, custom.Message, "cannot be deleted")
}
