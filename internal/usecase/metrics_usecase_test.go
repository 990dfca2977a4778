package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMetricsSummary(t *testing.T) {
	candidateID := uuid.New()

	t.Run("Should compute the success rate from offers over total", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		uc := usecase.NewMetricsUsecase(mockRepo, quietCache())

		mockRepo.On("CountByCandidate", mock.Anything, candidateID).
			Return(domain.StatusCounts{Total: 12, Interviews: 4, Offers: 3, Rejections: 2}, nil)

		snapshot, err := uc.Summary(context.Background(), candidateID)
		assert.NoError(t, err)
		assert.Equal(t, 12, snapshot.TotalApplications)
		assert.Equal(t, 3, snapshot.TotalOffers)
		assert.Equal(t, 25.0, snapshot.SuccessRate)
	})

	t.Run("Should return a zero snapshot for a candidate with no applications", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		uc := usecase.NewMetricsUsecase(mockRepo, quietCache())

		mockRepo.On("CountByCandidate", mock.Anything, candidateID).
			Return(domain.StatusCounts{}, nil)

		snapshot, err := uc.Summary(context.Background(), candidateID)
		assert.NoError(t, err)
		assert.Equal(t, 0, snapshot.TotalApplications)
		assert.Equal(t, 0.0, snapshot.SuccessRate)
	})

	t.Run("Should serve a cached snapshot without touching storage", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		mockCache := new(MockMetricsCache)
		uc := usecase.NewMetricsUsecase(mockRepo, mockCache)

		cached := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{Total: 4, Offers: 1})
		mockCache.On("Get", mock.Anything, candidateID).Return(&cached, nil)

		snapshot, err := uc.Summary(context.Background(), candidateID)
		assert.NoError(t, err)
		assert.Equal(t, 4, snapshot.TotalApplications)
		mockRepo.AssertNotCalled(t, "CountByCandidate")
	})

	t.Run("Should fall back to storage when the cache fails", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		mockCache := new(MockMetricsCache)
		uc := usecase.NewMetricsUsecase(mockRepo, mockCache)

		mockCache.On("Get", mock.Anything, candidateID).Return(nil, errors.New("connection refused"))
		mockCache.On("Set", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
		mockRepo.On("CountByCandidate", mock.Anything, candidateID).
			Return(domain.StatusCounts{Total: 2}, nil)

		snapshot, err := uc.Summary(context.Background(), candidateID)
		assert.NoError(t, err)
		assert.Equal(t, 2, snapshot.TotalApplications)
	})
}

func TestAchievements(t *testing.T) {
	candidateID := uuid.New()

	t.Run("Should grant exactly the badges whose thresholds are met", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		uc := usecase.NewMetricsUsecase(mockRepo, quietCache())

		// Ten applications: one offer, two interviews, three rejected
		mockRepo.On("CountByCandidate", mock.Anything, candidateID).
			Return(domain.StatusCounts{Total: 10, Interviews: 2, Offers: 1, Rejections: 3}, nil)

		achievements, err := uc.Achievements(context.Background(), candidateID)
		assert.NoError(t, err)

		var names []string
		for _, a := range achievements {
			names = append(names, a.Name)
		}
		assert.ElementsMatch(t, []string{
			domain.AchievementActiveApplicant,
			domain.AchievementFirstOffer,
		}, names)
	})

	t.Run("Should grant nothing to a fresh candidate", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		uc := usecase.NewMetricsUsecase(mockRepo, quietCache())

		mockRepo.On("CountByCandidate", mock.Anything, candidateID).
			Return(domain.StatusCounts{}, nil)

		achievements, err := uc.Achievements(context.Background(), candidateID)
		assert.NoError(t, err)
		assert.Empty(t, achievements)
	})

	t.Run("Should grant the same set on repeated evaluation", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		uc := usecase.NewMetricsUsecase(mockRepo, quietCache())

		mockRepo.On("CountByCandidate", mock.Anything, candidateID).
			Return(domain.StatusCounts{Total: 11, Interviews: 6, Offers: 3, Rejections: 1}, nil)

		first, err := uc.Achievements(context.Background(), candidateID)
		assert.NoError(t, err)
		second, err := uc.Achievements(context.Background(), candidateID)
		assert.NoError(t, err)

		assert.Len(t, first, 4)
		for i := range first {
			assert.Equal(t, first[i].Name, second[i].Name)
			assert.Equal(t, first[i].Threshold, second[i].Threshold)
		}
	})
}

func TestStatusCountAccessors(t *testing.T) {
	candidateID := uuid.New()

	t.Run("Should expose offers, interviews and rejections from one snapshot", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		uc := usecase.NewMetricsUsecase(mockRepo, quietCache())

		mockRepo.On("CountByCandidate", mock.Anything, candidateID).
			Return(domain.StatusCounts{Total: 9, Interviews: 4, Offers: 2, Rejections: 3}, nil)

		offers, err := uc.OffersCount(context.Background(), candidateID)
		assert.NoError(t, err)
		assert.Equal(t, 2, offers)

		interviews, err := uc.InterviewsCount(context.Background(), candidateID)
		assert.NoError(t, err)
		assert.Equal(t, 4, interviews)

		rejections, err := uc.RejectionsCount(context.Background(), candidateID)
		assert.NoError(t, err)
		assert.Equal(t, 3, rejections)
	})

	t.Run("Should surface storage failures instead of zeros", func(t *testing.T) {
		mockRepo := new(MockMetricsRepo)
		uc := usecase.NewMetricsUsecase(mockRepo, quietCache())

		mockRepo.On("CountByCandidate", mock.Anything, candidateID).
			Return(domain.StatusCounts{}, errors.New("connection refused"))

		_, err := uc.OffersCount(context.Background(), candidateID)
		assert.Error(t, err)
	})
}
