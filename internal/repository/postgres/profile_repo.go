package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// Create inserts the profile row and its type-specific detail row
func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (id, profile_type, status, name, location, phone, about, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, profile.ID, profile.Type, profile.Status, profile.DisplayName,
		profile.Location, profile.Phone, profile.About, profile.PhotoURL,
		profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	if err := upsertDetails(ctx, tx, profile); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a profile with its details and preferences
func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT id, profile_type, status, name, location, phone, about, photo_url, created_at, updated_at
		FROM profiles WHERE id = $1`

	var p domain.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Type, &p.Status, &p.DisplayName,
		&p.Location, &p.Phone, &p.About, &p.PhotoURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := r.loadDetails(ctx, &p); err != nil {
		return nil, err
	}
	if err := r.loadPreferences(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Fetch retrieves profiles of one type with pagination
func (r *profileRepo) Fetch(ctx context.Context, profileType domain.ProfileType, limit, offset int) ([]domain.Profile, int64, error) {
	query := `
		SELECT id, profile_type, status, name, location, phone, about, photo_url, created_at, updated_at
		FROM profiles
		WHERE profile_type = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, profileType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(
			&p.ID, &p.Type, &p.Status, &p.DisplayName,
			&p.Location, &p.Phone, &p.About, &p.PhotoURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating profile rows: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE profile_type = $1`, profileType).Scan(&total); err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Update persists common fields and the type-specific details
func (r *profileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	profile.UpdatedAt = time.Now()

	result, err := tx.Exec(ctx, `
		UPDATE profiles
		SET name = $2, location = $3, phone = $4, about = $5, updated_at = $6
		WHERE id = $1
	`, profile.ID, profile.DisplayName, profile.Location, profile.Phone, profile.About, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := upsertDetails(ctx, tx, profile); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateStatus flips a profile between active and inactive
func (r *profileRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProfileStatus) error {
	query := `UPDATE profiles SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update profile status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePhotoURL stores the uploaded photo location
func (r *profileRepo) UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL string) error {
	query := `UPDATE profiles SET photo_url = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, photoURL, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update photo url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertPreferences writes preference entries, updating values on conflict
func (r *profileRepo) UpsertPreferences(ctx context.Context, id uuid.UUID, prefs []domain.Preference) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	for _, pref := range prefs {
		_, err = tx.Exec(ctx, `
			INSERT INTO profile_preferences (profile_id, pref_key, pref_value, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (profile_id, pref_key) DO UPDATE
			SET pref_value = EXCLUDED.pref_value, updated_at = EXCLUDED.updated_at
		`, id, pref.Key, pref.Value, pref.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert preference %s: %w", pref.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *profileRepo) loadDetails(ctx context.Context, p *domain.Profile) error {
	switch p.Type {
	case domain.ProfileCandidate:
		var d domain.CandidateDetails
		var skills []string
		err := r.db.QueryRow(ctx, `
			SELECT COALESCE(headline, ''), COALESCE(summary, ''), skills, experience_years
			FROM candidate_details WHERE profile_id = $1
		`, p.ID).Scan(&d.Headline, &d.Summary, pq.Array(&skills), &d.ExperienceYears)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil // Profile without details yet
			}
			return fmt.Errorf("failed to load candidate details: %w", err)
		}
		d.Skills = skills
		p.Candidate = &d
	case domain.ProfileCompany:
		var d domain.CompanyDetails
		err := r.db.QueryRow(ctx, `
			SELECT COALESCE(legal_name, ''), website, industry
			FROM company_details WHERE profile_id = $1
		`, p.ID).Scan(&d.LegalName, &d.Website, &d.Industry)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to load company details: %w", err)
		}
		p.Company = &d
	}
	return nil
}

func (r *profileRepo) loadPreferences(ctx context.Context, p *domain.Profile) error {
	rows, err := r.db.Query(ctx, `
		SELECT pref_key, pref_value, updated_at
		FROM profile_preferences
		WHERE profile_id = $1
		ORDER BY pref_key ASC
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pref domain.Preference
		if err := rows.Scan(&pref.Key, &pref.Value, &pref.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan preference row: %w", err)
		}
		p.Preferences = append(p.Preferences, pref)
	}
	return rows.Err()
}

// upsertDetails writes the type-specific detail row
func upsertDetails(ctx context.Context, tx pgx.Tx, profile *domain.Profile) error {
	switch profile.Type {
	case domain.ProfileCandidate:
		if profile.Candidate == nil {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO candidate_details (profile_id, headline, summary, skills, experience_years)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (profile_id) DO UPDATE
			SET headline = EXCLUDED.headline, summary = EXCLUDED.summary,
			    skills = EXCLUDED.skills, experience_years = EXCLUDED.experience_years
		`, profile.ID, profile.Candidate.Headline, profile.Candidate.Summary,
			pq.Array(profile.Candidate.Skills), profile.Candidate.ExperienceYears)
		if err != nil {
			return fmt.Errorf("failed to upsert candidate details: %w", err)
		}
	case domain.ProfileCompany:
		if profile.Company == nil {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO company_details (profile_id, legal_name, website, industry)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (profile_id) DO UPDATE
			SET legal_name = EXCLUDED.legal_name, website = EXCLUDED.website, industry = EXCLUDED.industry
		`, profile.ID, profile.Company.LegalName, profile.Company.Website, profile.Company.Industry)
		if err != nil {
			return fmt.Errorf("failed to upsert company details: %w", err)
		}
	}
	return nil
}
