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

type fakeFeedbackStore struct {
	entries        map[int64]*models.Feedback
	nextID         int64
	lastListScope  int64
	listScopeCalls int
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{entries: map[int64]*models.Feedback{}, nextID: 1}
}

func (f *fakeFeedbackStore) CreateFeedback(ctx context.Context, feedback *models.Feedback) (int64, error) {
	stored := *feedback
	stored.ID = f.nextID
	stored.Status = models.FeedbackPending
	f.nextID++
	f.entries[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeFeedbackStore) GetFeedbackByID(ctx context.Context, id int64) (*models.Feedback, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, apperrors.ErrFeedbackNotFound
	}
	return entry, nil
}

func (f *fakeFeedbackStore) ListFeedback(ctx context.Context, teacherID int64) ([]*models.Feedback, error) {
	f.lastListScope = teacherID
	f.listScopeCalls++
	var out []*models.Feedback
	for _, entry := range f.entries {
		if teacherID == 0 || entry.TeacherID == teacherID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeFeedbackStore) UpdateStatus(ctx context.Context, id int64, status models.FeedbackStatus) error {
	entry, ok := f.entries[id]
	if !ok {
		return apperrors.ErrFeedbackNotFound
	}
	entry.Status = status
	return nil
}

type feedbackFixture struct {
	service FeedbackService
	store   *fakeFeedbackStore
}

func newFeedbackFixture() *feedbackFixture {
	store := newFakeFeedbackStore()
	profiles := &fakeProfiles{
		teachers: map[int64]*models.Teacher{50: {ID: 5, UserID: 50}},
		students: map[int64]*models.Student{},
	}
	return &feedbackFixture{
		service: NewFeedbackService(store, profiles, zerolog.Nop()),
		store:   store,
	}
}

func TestSubmitFeedback(t *testing.T) {
	f := newFeedbackFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	entry, err := f.service.SubmitFeedback(context.Background(), teacher, &dto.SubmitFeedbackRequest{
		Content: "the lab projector is broken",
	})
	require.NoError(t, err)

	assert.Equal(t, models.FeedbackPending, entry.Status)
	assert.Equal(t, int64(5), entry.TeacherID)
}

func TestSubmitFeedbackBlankContent(t *testing.T) {
	f := newFeedbackFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	_, err := f.service.SubmitFeedback(context.Background(), teacher, &dto.SubmitFeedbackRequest{
		Content: "   ",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateFeedbackStatus(t *testing.T) {
	f := newFeedbackFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	entry, err := f.service.SubmitFeedback(context.Background(), teacher, &dto.SubmitFeedbackRequest{
		Content: "missing textbooks",
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateFeedbackStatus(context.Background(), entry.ID, &dto.UpdateFeedbackStatusRequest{
		Status: models.FeedbackReviewed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackReviewed, updated.Status)
}

func TestUpdateFeedbackStatusInvalid(t *testing.T) {
	f := newFeedbackFixture()

	_, err := f.service.UpdateFeedbackStatus(context.Background(), 1, &dto.UpdateFeedbackStatusRequest{
		Status: models.FeedbackStatus("ARCHIVED"),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateFeedbackStatusNotFound(t *testing.T) {
	f := newFeedbackFixture()

	_, err := f.service.UpdateFeedbackStatus(context.Background(), 42, &dto.UpdateFeedbackStatusRequest{
		Status: models.FeedbackReviewed,
	})
	assert.ErrorIs(t, err, apperrors.ErrFeedbackNotFound)
}

func TestListFeedbackScoping(t *testing.T) {
	f := newFeedbackFixture()
	teacher := Caller{UserID: 50, Role: models.RoleTeacher}

	_, err := f.service.ListFeedback(context.Background(), teacher)
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.store.lastListScope)

	_, err = f.service.ListFeedback(context.Background(), Caller{UserID: 99, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.store.lastListScope)
	assert.Equal(t, 2, f.store.listScopeCalls)
}
