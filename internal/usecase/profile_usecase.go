package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"
	"go-talentflow-backend/pkg/logger"
	"go-talentflow-backend/pkg/security"
	"go-talentflow-backend/pkg/storage"

	"github.com/google/uuid"
)

const (
	photoMaxDimension = 512
	photoJpegQuality  = 85
	maxPreferences    = 50
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	objectStore domain.ObjectStore
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(profileRepo domain.ProfileRepository, objectStore domain.ObjectStore) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		objectStore: objectStore,
	}
}

// CreateProfile validates and stores a new profile
func (uc *profileUsecase) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	// 1. Validate the essentials
	if strings.TrimSpace(profile.DisplayName) == "" {
		return apperror.BadRequest("Display name is required")
	}
	if profile.Type != domain.ProfileCandidate && profile.Type != domain.ProfileCompany {
		return apperror.BadRequest("Profile type must be candidate or company")
	}
	// 2. Details must match the declared type
	if profile.Type == domain.ProfileCandidate && profile.Company != nil {
		return apperror.BadRequest("Candidate profile cannot carry company details")
	}
	if profile.Type == domain.ProfileCompany && profile.Candidate != nil {
		return apperror.BadRequest("Company profile cannot carry candidate details")
	}

	// 3. Fill defaults and persist
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Status == "" {
		profile.Status = domain.ProfileActive
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// GetProfile returns one profile with its details and preferences
func (uc *profileUsecase) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// ListProfiles returns one page of profiles of the requested type
func (uc *profileUsecase) ListProfiles(ctx context.Context, profileType string, page, pageSize int) ([]domain.Profile, int64, error) {
	var pt domain.ProfileType
	switch profileType {
	case string(domain.ProfileCandidate):
		pt = domain.ProfileCandidate
	case string(domain.ProfileCompany):
		pt = domain.ProfileCompany
	default:
		return nil, 0, apperror.BadRequest("Profile type must be candidate or company")
	}

	limit, offset := normalizePage(page, pageSize)
	profiles, total, err := uc.profileRepo.Fetch(ctx, pt, limit, offset)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return profiles, total, nil
}

// UpdateProfile saves changes to a profile the requester owns
func (uc *profileUsecase) UpdateProfile(ctx context.Context, requesterID uuid.UUID, profile *domain.Profile) error {
	if requesterID != profile.ID {
		return apperror.Forbidden("You can only edit your own profile")
	}

	// 1. Make sure the profile exists and keep its immutable fields
	existing, err := uc.profileRepo.GetByID(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Profile not found")
		}
		return apperror.Internal(err)
	}
	profile.Type = existing.Type
	profile.Status = existing.Status

	// 2. Validate mutable fields
	if strings.TrimSpace(profile.DisplayName) == "" {
		return apperror.BadRequest("Display name is required")
	}
	if profile.Type == domain.ProfileCandidate && profile.Company != nil {
		return apperror.BadRequest("Candidate profile cannot carry company details")
	}
	if profile.Type == domain.ProfileCompany && profile.Candidate != nil {
		return apperror.BadRequest("Company profile cannot carry candidate details")
	}

	// 3. Persist
	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Profile not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// ChangeStatus flips a profile between active and inactive. Admins pass the
// target profile id as requesterID after the handler's role check.
func (uc *profileUsecase) ChangeStatus(ctx context.Context, requesterID, id uuid.UUID, status string) error {
	if requesterID != id {
		return apperror.Forbidden("You can only change your own profile status")
	}

	var ps domain.ProfileStatus
	switch status {
	case string(domain.ProfileActive):
		ps = domain.ProfileActive
	case string(domain.ProfileInactive):
		ps = domain.ProfileInactive
	default:
		return apperror.BadRequest("Status must be active or inactive")
	}

	if err := uc.profileRepo.UpdateStatus(ctx, id, ps); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Profile not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// SetPreferences upserts the given keys and returns the refreshed profile.
// Keys not present in the map are left untouched.
func (uc *profileUsecase) SetPreferences(ctx context.Context, requesterID, id uuid.UUID, prefs map[string]string) (*domain.Profile, error) {
	if requesterID != id {
		return nil, apperror.Forbidden("You can only change your own preferences")
	}
	if len(prefs) == 0 {
		return nil, apperror.BadRequest("At least one preference is required")
	}
	if len(prefs) > maxPreferences {
		return nil, apperror.BadRequest("Too many preferences in one request")
	}

	now := time.Now()
	entries := make([]domain.Preference, 0, len(prefs))
	for key, value := range prefs {
		if strings.TrimSpace(key) == "" {
			return nil, apperror.BadRequest("Preference keys cannot be empty")
		}
		entries = append(entries, domain.Preference{Key: key, Value: value, UpdatedAt: now})
	}

	if err := uc.profileRepo.UpsertPreferences(ctx, id, entries); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, apperror.Internal(err)
	}

	return uc.GetProfile(ctx, id)
}

// UploadPhoto compresses the image, stores it and saves the resulting URL
func (uc *profileUsecase) UploadPhoto(ctx context.Context, requesterID, id uuid.UUID, upload domain.FileUpload) (string, error) {
	if requesterID != id {
		return "", apperror.Forbidden("You can only change your own photo")
	}
	if err := security.ValidatePhoto(upload.Name, upload.Data); err != nil {
		return "", apperror.BadRequest(err.Error())
	}

	// 1. Recompress to a bounded jpeg so storage stays predictable
	compressed, err := storage.CompressImage(upload.Data, photoMaxDimension, photoJpegQuality)
	if err != nil {
		return "", apperror.BadRequest("File must be a valid image")
	}
	logger.Log.Debug("profile photo compressed",
		"profile_id", id.String(),
		"original_bytes", len(upload.Data),
		"compressed_bytes", len(compressed),
	)

	// 2. Upload under a fresh key so stale CDN caches never serve old photos
	key := fmt.Sprintf("profiles/%s/photo_%s.jpg", id, uuid.NewString())
	url, err := uc.objectStore.Upload(ctx, key, "image/jpeg", compressed)
	if err != nil {
		return "", apperror.Internal(err)
	}

	// 3. Persist the URL
	if err := uc.profileRepo.UpdatePhotoURL(ctx, id, url); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", apperror.NotFound("Profile not found")
		}
		return "", apperror.Internal(err)
	}
	return url, nil
}

// normalizePage converts page/pageSize into limit/offset with sane bounds
func normalizePage(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}
