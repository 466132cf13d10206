package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/pkg/apperrors"
)

type fakeCatalogStore struct {
	subjects map[int64]*models.Subject
	nextID   int64
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{subjects: map[int64]*models.Subject{}, nextID: 1}
}

func (f *fakeCatalogStore) CreateSubject(ctx context.Context, subject *models.Subject) (int64, error) {
	for _, existing := range f.subjects {
		if existing.TeacherID == subject.TeacherID && existing.Title == subject.Title {
			return 0, apperrors.ErrSubjectAlreadyExists
		}
	}
	stored := *subject
	stored.ID = f.nextID
	f.nextID++
	f.subjects[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeCatalogStore) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	subject, ok := f.subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	return subject, nil
}

func (f *fakeCatalogStore) ListSubjects(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, subject := range f.subjects {
		if teacherID == 0 || subject.TeacherID == teacherID {
			out = append(out, subject)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) UpdateSubjectFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	subject, ok := f.subjects[id]
	if !ok {
		return apperrors.ErrSubjectNotFound
	}
	if v, ok := fields["title"]; ok {
		subject.Title = v.(string)
	}
	if v, ok := fields["teacher_id"]; ok {
		subject.TeacherID = v.(int64)
	}
	return nil
}

func (f *fakeCatalogStore) DeleteSubject(ctx context.Context, id int64) error {
	if _, ok := f.subjects[id]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	delete(f.subjects, id)
	return nil
}

type fakeCatalogTeacherStore struct {
	teachers map[int64]*models.Teacher
}

func (f *fakeCatalogTeacherStore) GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, ok := f.teachers[id]
	if !ok {
		return nil, apperrors.ErrTeacherNotFound
	}
	return teacher, nil
}

func newSubjectFixture() (SubjectService, *fakeCatalogStore) {
	store := newFakeCatalogStore()
	teachers := &fakeCatalogTeacherStore{teachers: map[int64]*models.Teacher{
		5: {ID: 5, UserID: 50},
		6: {ID: 6, UserID: 51},
	}}
	return NewSubjectService(store, teachers, zerolog.Nop()), store
}

func TestCreateSubject(t *testing.T) {
	service, _ := newSubjectFixture()

	subject, err := service.CreateSubject(context.Background(), &dto.CreateSubjectRequest{
		Title:     "  Mathematics ",
		TeacherID: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "Mathematics", subject.Title)
	assert.Equal(t, int64(5), subject.TeacherID)
}

func TestCreateSubjectBlankTitle(t *testing.T) {
	service, _ := newSubjectFixture()

	_, err := service.CreateSubject(context.Background(), &dto.CreateSubjectRequest{
		Title:     "   ",
		TeacherID: 5,
	})
	assert.ErrorIs(t, err, apperrors.ErrSubjectTitleEmpty)
}

func TestCreateSubjectUnknownTeacher(t *testing.T) {
	service, _ := newSubjectFixture()

	_, err := service.CreateSubject(context.Background(), &dto.CreateSubjectRequest{
		Title:     "Physics",
		TeacherID: 42,
	})
	assert.ErrorIs(t, err, apperrors.ErrTeacherNotFound)
}

func TestCreateSubjectDuplicateTitle(t *testing.T) {
	service, _ := newSubjectFixture()

	_, err := service.CreateSubject(context.Background(), &dto.CreateSubjectRequest{Title: "Physics", TeacherID: 5})
	require.NoError(t, err)

	_, err = service.CreateSubject(context.Background(), &dto.CreateSubjectRequest{Title: "Physics", TeacherID: 5})
	assert.ErrorIs(t, err, apperrors.ErrSubjectAlreadyExists)
}

func TestUpdateSubjectReassignTeacher(t *testing.T) {
	service, store := newSubjectFixture()

	subject, err := service.CreateSubject(context.Background(), &dto.CreateSubjectRequest{Title: "Physics", TeacherID: 5})
	require.NoError(t, err)

	newTeacher := int64(6)
	updated, err := service.UpdateSubject(context.Background(), subject.ID, &dto.UpdateSubjectRequest{
		TeacherID: &newTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), updated.TeacherID)
	assert.Equal(t, int64(6), store.subjects[subject.ID].TeacherID)
}

func TestUpdateSubjectReassignToUnknownTeacher(t *testing.T) {
	service, _ := newSubjectFixture()

	subject, err := service.CreateSubject(context.Background(), &dto.CreateSubjectRequest{Title: "Physics", TeacherID: 5})
	require.NoError(t, err)

	unknown := int64(42)
	_, err = service.UpdateSubject(context.Background(), subject.ID, &dto.UpdateSubjectRequest{
		TeacherID: &unknown,
	})
	assert.ErrorIs(t, err, apperrors.ErrTeacherNotFound)
}

func TestDeleteSubjectNotFound(t *testing.T) {
	service, _ := newSubjectFixture()

	err := service.DeleteSubject(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
}
