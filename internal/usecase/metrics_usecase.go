package usecase

import (
	"context"
	"time"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"
	"go-talentflow-backend/pkg/logger"

	"github.com/google/uuid"
)

type metricsUsecase struct {
	metricsRepo domain.MetricsRepository
	cache       domain.MetricsCache
}

// NewMetricsUsecase creates a new metrics usecase
func NewMetricsUsecase(metricsRepo domain.MetricsRepository, cache domain.MetricsCache) domain.MetricsUsecase {
	return &metricsUsecase{
		metricsRepo: metricsRepo,
		cache:       cache,
	}
}

// Summary returns the candidate's current counters. The snapshot is derived
// from application rows on demand; a candidate with no applications gets a
// zero-filled snapshot, not an error.
func (uc *metricsUsecase) Summary(ctx context.Context, candidateID uuid.UUID) (*domain.MetricsSnapshot, error) {
	// 1. Serve from cache when possible
	if cached, err := uc.cache.Get(ctx, candidateID); err != nil {
		logger.Log.Warn("metrics cache read failed", "candidate_id", candidateID.String(), "error", err.Error())
	} else if cached != nil {
		return cached, nil
	}

	// 2. Recompute from the source of truth
	counts, err := uc.metricsRepo.CountByCandidate(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	snapshot := domain.NewMetricsSnapshot(candidateID, counts)

	// 3. Cache for the next reader, best effort
	if err := uc.cache.Set(ctx, snapshot); err != nil {
		logger.Log.Warn("metrics cache write failed", "candidate_id", candidateID.String(), "error", err.Error())
	}
	return &snapshot, nil
}

// Achievements recomputes the badge set from the current snapshot
func (uc *metricsUsecase) Achievements(ctx context.Context, candidateID uuid.UUID) ([]domain.Achievement, error) {
	snapshot, err := uc.Summary(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return domain.ComputeAchievements(*snapshot, time.Now()), nil
}

// OffersCount returns how many of the candidate's applications hold an offer
func (uc *metricsUsecase) OffersCount(ctx context.Context, candidateID uuid.UUID) (int, error) {
	snapshot, err := uc.Summary(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	return snapshot.TotalOffers, nil
}

// InterviewsCount returns how many applications are in the interview stage
func (uc *metricsUsecase) InterviewsCount(ctx context.Context, candidateID uuid.UUID) (int, error) {
	snapshot, err := uc.Summary(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	return snapshot.TotalInterviews, nil
}

// RejectionsCount returns how many applications ended rejected, counting
// rows that still carry the legacy spelling
func (uc *metricsUsecase) RejectionsCount(ctx context.Context, candidateID uuid.UUID) (int, error) {
	snapshot, err := uc.Summary(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	return snapshot.TotalRejections, nil
}
