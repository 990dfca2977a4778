package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatusCounts is the raw per-state tally behind a metrics snapshot. The
// rejections count folds both rejection spellings together; legacy rows may
// still carry the old one.
type StatusCounts struct {
	Total      int
	Interviews int
	Offers     int
	Rejections int
}

// MetricsSnapshot is the derived, never-stored summary of one candidate's
// applications. It is recomputed from current application states on every
// query, so it cannot drift from the application data.
type MetricsSnapshot struct {
	CandidateID       uuid.UUID `json:"candidate_id"`
	TotalApplications int       `json:"total_applications"`
	TotalInterviews   int       `json:"total_interviews"`
	TotalOffers       int       `json:"total_offers"`
	TotalRejections   int       `json:"total_rejections"`
	SuccessRate       float64   `json:"success_rate"`
}

// NewMetricsSnapshot builds a snapshot from raw counts. The success rate is
// offers over total as a percentage, and 0.0 when there are no applications.
func NewMetricsSnapshot(candidateID uuid.UUID, counts StatusCounts) MetricsSnapshot {
	rate := 0.0
	if counts.Total > 0 {
		rate = float64(counts.Offers) / float64(counts.Total) * 100
	}
	return MetricsSnapshot{
		CandidateID:       candidateID,
		TotalApplications: counts.Total,
		TotalInterviews:   counts.Interviews,
		TotalOffers:       counts.Offers,
		TotalRejections:   counts.Rejections,
		SuccessRate:       rate,
	}
}

// Achievement is a derived badge, recomputed on every query from the
// snapshot counters. Nothing is persisted: evaluating the same snapshot
// twice yields the same set.
type Achievement struct {
	Name      string    `json:"name"`
	Threshold int       `json:"threshold"`
	EarnedAt  time.Time `json:"earned_at"`
}

// Achievement names
const (
	AchievementActiveApplicant     = "Active Applicant"
	AchievementFrequentInterviewee = "Frequent Interviewee"
	AchievementFirstOffer          = "First Offer"
	AchievementStandoutCandidate   = "Standout Candidate"
)

// ComputeAchievements evaluates the fixed rule set against a snapshot. Each
// rule is independent; the earned timestamp is the evaluation time since
// grants are recomputed facts, not stored state.
func ComputeAchievements(s MetricsSnapshot, now time.Time) []Achievement {
	var earned []Achievement
	if s.TotalApplications >= 10 {
		earned = append(earned, Achievement{Name: AchievementActiveApplicant, Threshold: 10, EarnedAt: now})
	}
	if s.TotalInterviews >= 5 {
		earned = append(earned, Achievement{Name: AchievementFrequentInterviewee, Threshold: 5, EarnedAt: now})
	}
	if s.TotalOffers >= 1 {
		earned = append(earned, Achievement{Name: AchievementFirstOffer, Threshold: 1, EarnedAt: now})
	}
	if s.TotalOffers >= 3 {
		earned = append(earned, Achievement{Name: AchievementStandoutCandidate, Threshold: 3, EarnedAt: now})
	}
	return earned
}

// MetricsRepository counts a candidate's applications grouped by current
// state. A candidate with no applications yields zero counts, not an error;
// storage failures surface as errors.
type MetricsRepository interface {
	CountByCandidate(ctx context.Context, candidateID uuid.UUID) (StatusCounts, error)
}

// MetricsCache is a read-through cache for snapshots. A miss returns
// (nil, nil). Invalidate is called after every application write so the
// projection never serves counters from before a transition.
type MetricsCache interface {
	Get(ctx context.Context, candidateID uuid.UUID) (*MetricsSnapshot, error)
	Set(ctx context.Context, snapshot MetricsSnapshot) error
	Invalidate(ctx context.Context, candidateID uuid.UUID) error
}

// MetricsUsecase defines the read-only metrics projection.
type MetricsUsecase interface {
	Summary(ctx context.Context, candidateID uuid.UUID) (*MetricsSnapshot, error)
	Achievements(ctx context.Context, candidateID uuid.UUID) ([]Achievement, error)
	OffersCount(ctx context.Context, candidateID uuid.UUID) (int, error)
	InterviewsCount(ctx context.Context, candidateID uuid.UUID) (int, error)
	RejectionsCount(ctx context.Context, candidateID uuid.UUID) (int, error)
}
