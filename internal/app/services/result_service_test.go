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

type fakeResultStore struct {
	results    []*models.Result
	nextID     int64
	lastFilter repositories.ResultFilter
}

func (f *fakeResultStore) CreateResult(ctx context.Context, result *models.Result) (int64, error) {
	f.nextID++
	stored := *result
	stored.ID = f.nextID
	f.results = append(f.results, &stored)
	return stored.ID, nil
}

func (f *fakeResultStore) ListResults(ctx context.Context, filter repositories.ResultFilter) ([]*models.Result, error) {
	f.lastFilter = filter
	return f.results, nil
}

func (f *fakeResultStore) AverageBySubject(ctx context.Context, filter repositories.ResultFilter) ([]*models.SubjectAverage, error) {
	f.lastFilter = filter
	return nil, nil
}

type resultFixture struct {
	service ResultService
	store   *fakeResultStore
}

func newResultFixture() *resultFixture {
	store := &fakeResultStore{}
	profiles := &fakeProfiles{
		teachers: map[int64]*models.Teacher{50: {ID: 5, UserID: 50}},
		students: map[int64]*models.Student{10: {ID: 1, UserID: 10}},
	}
	return &resultFixture{
		service: NewResultService(store, profiles, zerolog.Nop()),
		store:   store,
	}
}

func TestSubmitResult(t *testing.T) {
	f := newResultFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	result, err := f.service.SubmitResult(context.Background(), teacher, &dto.SubmitResultRequest{
		StudentID: 1,
		SubjectID: 7,
		Marks:     87.5,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.TeacherID)
	assert.Equal(t, 87.5, result.Marks)
	assert.NotZero(t, result.ID)
}

func TestSubmitResultMarksBounds(t *testing.T) {
	f := newResultFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	tests := []struct {
		name    string
		marks   float64
		wantErr bool
	}{
		{"below range", -0.5, true},
		{"above range", 100.5, true},
		{"zero", 0, false},
		{"full marks", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.SubmitResult(context.Background(), teacher, &dto.SubmitResultRequest{
				StudentID: 1,
				SubjectID: 7,
				Marks:     tt.marks,
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrMarksOutOfRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// The same (student, subject) pair may be recorded more than once; history is
// kept, not overwritten.
func TestSubmitResultKeepsHistory(t *testing.T) {
	f := newResultFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	for _, marks := range []float64{60, 75} {
		_, err := f.service.SubmitResult(context.Background(), teacher, &dto.SubmitResultRequest{
			StudentID: 1,
			SubjectID: 7,
			Marks:     marks,
		})
		require.NoError(t, err)
	}
	assert.Len(t, f.store.results, 2)
}

func TestListResultsScoping(t *testing.T) {
	f := newResultFixture()

	tests := []struct {
		name          string
		caller        Caller
		wantTeacherID int64
		wantStudentID int64
	}{
		{"admin unscoped", Caller{UserID: 99, Role: models.RoleAdmin}, 0, 0},
		{"teacher sees own submissions", Caller{UserID: 50, Role: models.RoleTeacher}, 5, 0},
		{"student sees own marks", Caller{UserID: 10, Role: models.RoleStudent}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.ListResults(context.Background(), tt.caller)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTeacherID, f.store.lastFilter.TeacherID)
			assert.Equal(t, tt.wantStudentID, f.store.lastFilter.StudentID)
		})
	}
}

func TestAverageMarksScoping(t *testing.T) {
	f := newResultFixture()
	student := Caller{UserID: 10, Role: models.RoleStudent}

	_, err := f.service.AverageMarks(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.store.lastFilter.StudentID)
}
