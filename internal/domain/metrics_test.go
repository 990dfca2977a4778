package domain_test

import (
	"testing"
	"time"

	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsSnapshot(t *testing.T) {
	candidateID := uuid.New()

	t.Run("Should compute offers over total as a percentage", func(t *testing.T) {
		s := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{Total: 12, Offers: 3})
		assert.Equal(t, 25.0, s.SuccessRate)
	})

	t.Run("Should report zero instead of dividing by zero", func(t *testing.T) {
		s := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{})
		assert.Equal(t, 0.0, s.SuccessRate)
	})

	t.Run("Should carry every counter through", func(t *testing.T) {
		s := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{Total: 7, Interviews: 2, Offers: 1, Rejections: 3})
		assert.Equal(t, candidateID, s.CandidateID)
		assert.Equal(t, 7, s.TotalApplications)
		assert.Equal(t, 2, s.TotalInterviews)
		assert.Equal(t, 1, s.TotalOffers)
		assert.Equal(t, 3, s.TotalRejections)
	})
}

func TestComputeAchievements(t *testing.T) {
	candidateID := uuid.New()
	now := time.Now()

	names := func(achievements []domain.Achievement) []string {
		var out []string
		for _, a := range achievements {
			out = append(out, a.Name)
		}
		return out
	}

	t.Run("Should grant exactly the thresholds met", func(t *testing.T) {
		s := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{Total: 10, Interviews: 2, Offers: 1, Rejections: 3})
		got := names(domain.ComputeAchievements(s, now))
		assert.ElementsMatch(t, []string{domain.AchievementActiveApplicant, domain.AchievementFirstOffer}, got)
	})

	t.Run("Should grant nothing below every threshold", func(t *testing.T) {
		s := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{Total: 9, Interviews: 4, Offers: 0, Rejections: 5})
		assert.Empty(t, domain.ComputeAchievements(s, now))
	})

	t.Run("Should stack both offer badges at three offers", func(t *testing.T) {
		s := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{Total: 5, Offers: 3})
		got := names(domain.ComputeAchievements(s, now))
		assert.Contains(t, got, domain.AchievementFirstOffer)
		assert.Contains(t, got, domain.AchievementStandoutCandidate)
	})

	t.Run("Should grant the interview badge at five interviews", func(t *testing.T) {
		s := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{Total: 6, Interviews: 5})
		got := names(domain.ComputeAchievements(s, now))
		assert.Equal(t, []string{domain.AchievementFrequentInterviewee}, got)
	})

	t.Run("Should yield the same set for the same snapshot", func(t *testing.T) {
		s := domain.NewMetricsSnapshot(candidateID, domain.StatusCounts{Total: 11, Interviews: 6, Offers: 3})
		first := names(domain.ComputeAchievements(s, now))
		second := names(domain.ComputeAchievements(s, now.Add(time.Hour)))
		assert.Equal(t, first, second)
	})
}
