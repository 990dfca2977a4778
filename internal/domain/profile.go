package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProfileType distinguishes candidate profiles from company profiles.
type ProfileType string

const (
	ProfileCandidate ProfileType = "candidate"
	ProfileCompany   ProfileType = "company"
)

// ProfileStatus enumerates profile visibility states.
type ProfileStatus string

const (
	ProfileActive   ProfileStatus = "active"
	ProfileInactive ProfileStatus = "inactive"
)

// CandidateDetails holds the candidate-specific part of a profile.
type CandidateDetails struct {
	Headline        string   `json:"headline"`
	Summary         string   `json:"summary"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
}

// CompanyDetails holds the company-specific part of a profile.
type CompanyDetails struct {
	LegalName string  `json:"legal_name"`
	Website   *string `json:"website,omitempty"`
	Industry  *string `json:"industry,omitempty"`
}

// Preference is one key/value setting owned by a profile.
type Preference struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the public identity of an account: either a candidate or a
// company. Exactly one of Candidate/Company is set, matching Type.
type Profile struct {
	ID          uuid.UUID     `json:"id"`
	Type        ProfileType   `json:"type"`
	Status      ProfileStatus `json:"status"`
	DisplayName string        `json:"display_name"`
	Location    *string       `json:"location,omitempty"`
	Phone       *string       `json:"phone,omitempty"`
	About       *string       `json:"about,omitempty"`
	PhotoURL    *string       `json:"photo_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Candidate   *CandidateDetails `json:"candidate,omitempty"`
	Company     *CompanyDetails   `json:"company,omitempty"`
	Preferences []Preference      `json:"preferences,omitempty"`
}

// ProfileRepository defines data access methods for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Fetch(ctx context.Context, profileType ProfileType, limit, offset int) ([]Profile, int64, error)
	Update(ctx context.Context, profile *Profile) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status ProfileStatus) error
	UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL string) error
	UpsertPreferences(ctx context.Context, id uuid.UUID, prefs []Preference) error
}

// ProfileUsecase defines business logic for profiles.
type ProfileUsecase interface {
	CreateProfile(ctx context.Context, profile *Profile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	ListProfiles(ctx context.Context, profileType string, page, pageSize int) ([]Profile, int64, error)
	UpdateProfile(ctx context.Context, requesterID uuid.UUID, profile *Profile) error
	ChangeStatus(ctx context.Context, requesterID, id uuid.UUID, status string) error
	SetPreferences(ctx context.Context, requesterID, id uuid.UUID, prefs map[string]string) (*Profile, error)
	UploadPhoto(ctx context.Context, requesterID, id uuid.UUID, upload FileUpload) (string, error)
}
