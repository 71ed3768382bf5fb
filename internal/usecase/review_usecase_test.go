package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jobSeekerRecord(id, name, location string, status domain.Status) domain.Submission {
	return domain.Submission{
		Kind: domain.KindJobSeeker,
		JobSeeker: &domain.JobSeekerSubmission{
			ID:        id,
			FullName:  name,
			Location:  strPtr(location),
			Status:    status,
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func TestReviewList(t *testing.T) {
	ctx := context.Background()

	t.Run("Should pass trimmed search and drop the all status", func(t *testing.T) {
		repo := new(MockSubmissionRepo)
		uc := usecase.NewReviewUsecase(repo)
		want := []domain.Submission{jobSeekerRecord("1", "Asha", "Mumbai, India", domain.StatusNew)}
		repo.On("List", ctx, domain.KindJobSeeker, domain.ListFilter{Search: "mumbai"}).Return(want, nil).Once()

		got, err := uc.List(ctx, domain.KindJobSeeker, domain.ListFilter{Search: "  mumbai ", Status: "all"})

		require.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
	})

	t.Run("Should canonicalize the status filter", func(t *testing.T) {
		repo := new(MockSubmissionRepo)
		uc := usecase.NewReviewUsecase(repo)
		repo.On("List", ctx, domain.KindKitchen, domain.ListFilter{Status: domain.StatusDelivered}).Return(nil, nil).Once()

		got, err := uc.List(ctx, domain.KindKitchen, domain.ListFilter{Status: "delivered"})

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Should reject a status outside the category", func(t *testing.T) {
		repo := new(MockSubmissionRepo)
		uc := usecase.NewReviewUsecase(repo)

		_, err := uc.List(ctx, domain.KindJobSeeker, domain.ListFilter{Status: domain.StatusHired})

		var serr *domain.InvalidStateError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, domain.KindJobSeeker, serr.Kind)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject unknown categories", func(t *testing.T) {
		uc := usecase.NewReviewUsecase(new(MockSubmissionRepo))
		_, err := uc.List(ctx, domain.Kind("laundry"), domain.ListFilter{})
		assert.ErrorIs(t, err, domain.ErrUnknownKind)
	})

	t.Run("Should surface store errors", func(t *testing.T) {
		repo := new(MockSubmissionRepo)
		uc := usecase.NewReviewUsecase(repo)
		storeErr := errors.New("timeout")
		repo.On("List", ctx, domain.KindStaff, domain.ListFilter{}).Return(nil, storeErr)

		_, err := uc.List(ctx, domain.KindStaff, domain.ListFilter{})
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestReviewGetAndHistory(t *testing.T) {
	ctx := context.Background()
	record := jobSeekerRecord("abc", "Asha", "Pune", domain.StatusContacted)

	t.Run("Should return the record", func(t *testing.T) {
		repo := new(MockSubmissionRepo)
		repo.On("GetByID", ctx, domain.KindJobSeeker, "abc").Return(&record, nil)

		got, err := usecase.NewReviewUsecase(repo).Get(ctx, domain.KindJobSeeker, "abc")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusContacted, got.Status())
	})

	t.Run("Should propagate not found", func(t *testing.T) {
		repo := new(MockSubmissionRepo)
		repo.On("GetByID", ctx, domain.KindStaff, "missing").Return(nil, domain.ErrNotFound)

		_, err := usecase.NewReviewUsecase(repo).Get(ctx, domain.KindStaff, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Should list history of an existing record", func(t *testing.T) {
		repo := new(MockSubmissionRepo)
		changes := []domain.StatusChange{{Kind: domain.KindJobSeeker, SubmissionID: "abc", OldStatus: domain.StatusNew, NewStatus: domain.StatusContacted}}
		repo.On("GetByID", ctx, domain.KindJobSeeker, "abc").Return(&record, nil)
		repo.On("ListStatusHistory", ctx, domain.KindJobSeeker, "abc").Return(changes, nil)

		got, err := usecase.NewReviewUsecase(repo).History(ctx, domain.KindJobSeeker, "abc")
		require.NoError(t, err)
		assert.Equal(t, changes, got)
	})

	t.Run("Should not read history of a missing record", func(t *testing.T) {
		repo := new(MockSubmissionRepo)
		repo.On("GetByID", ctx, domain.KindJobSeeker, "nope").Return(nil, domain.ErrNotFound)

		_, err := usecase.NewReviewUsecase(repo).History(ctx, domain.KindJobSeeker, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "ListStatusHistory", mock.Anything, mock.Anything, mock.Anything)
	})
}
