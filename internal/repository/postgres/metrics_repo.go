package postgres

import (
	"context"
	"fmt"
	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type metricsRepo struct {
	db *pgxpool.Pool
}

func NewMetricsRepository(db *pgxpool.Pool) domain.MetricsRepository {
	return &metricsRepo{db: db}
}

// CountByCandidate tallies a candidate's applications by current state in one
// scan. Rows predating the status rename may still carry 'rejection', so the
// rejections filter matches both spellings. A candidate without applications
// yields all zeros.
func (r *metricsRepo) CountByCandidate(ctx context.Context, candidateID uuid.UUID) (domain.StatusCounts, error) {
	query := `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE status = 'interview') as interviews,
			COUNT(*) FILTER (WHERE status = 'offer') as offers,
			COUNT(*) FILTER (WHERE status IN ('rejected', 'rejection')) as rejections
		FROM applications
		WHERE candidate_id = $1`

	var counts domain.StatusCounts
	err := r.db.QueryRow(ctx, query, candidateID).Scan(
		&counts.Total, &counts.Interviews, &counts.Offers, &counts.Rejections,
	)
	if err != nil {
		return domain.StatusCounts{}, fmt.Errorf("failed to count applications: %w", err)
	}
	return counts, nil
}
