package v1

import (
	"io"
	"net/http"
	"strconv"

	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

// NewProfileHandler registers profile routes
func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase, uploadLimiter gin.HandlerFunc) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := protected.Group("/profiles")
	{
		profiles.POST("", handler.CreateProfile)
		profiles.GET("", handler.ListProfiles)
		profiles.GET("/:id", handler.GetProfile)
		profiles.PUT("/:id", handler.UpdateProfile)
		profiles.PATCH("/:id/status", handler.ChangeStatus)
		profiles.PUT("/:id/preferences", handler.SetPreferences)
		profiles.POST("/:id/photo", uploadLimiter, handler.UploadPhoto)
	}
}

// CreateProfileRequest is the payload for creating a profile directly
type CreateProfileRequest struct {
	Type        string                   `json:"type" binding:"required,oneof=candidate company"`
	DisplayName string                   `json:"display_name" binding:"required,valid_name,no_emoji"`
	Location    *string                  `json:"location"`
	Phone       *string                  `json:"phone" binding:"omitempty,valid_phone"`
	About       *string                  `json:"about"`
	Candidate   *domain.CandidateDetails `json:"candidate"`
	Company     *domain.CompanyDetails   `json:"company"`
}

// UpdateProfileRequest is the payload for editing a profile. Type and
// status are immutable here; status has its own endpoint.
type UpdateProfileRequest struct {
	DisplayName string                   `json:"display_name" binding:"required,valid_name,no_emoji"`
	Location    *string                  `json:"location"`
	Phone       *string                  `json:"phone" binding:"omitempty,valid_phone"`
	About       *string                  `json:"about"`
	Candidate   *domain.CandidateDetails `json:"candidate"`
	Company     *domain.CompanyDetails   `json:"company"`
}

type ChangeProfileStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

type SetPreferencesRequest struct {
	Preferences map[string]string `json:"preferences" binding:"required"`
}

// CreateProfile godoc
// @Summary      Create a profile
// @Description  Create a candidate or company profile directly (Admin only; registration creates profiles for normal signups)
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        body  body      CreateProfileRequest  true  "Profile data"
// @Success      201  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /profiles [post]
// @Security     BearerAuth
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleAdmin {
		c.Error(apperror.Forbidden("Only admins can create profiles directly"))
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile := &domain.Profile{
		Type:        domain.ProfileType(req.Type),
		DisplayName: req.DisplayName,
		Location:    req.Location,
		Phone:       req.Phone,
		About:       req.About,
		Candidate:   req.Candidate,
		Company:     req.Company,
	}

	if err := h.profileUC.CreateProfile(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile created successfully", profile)
}

// ListProfiles godoc
// @Summary      List profiles
// @Description  List profiles of one type with pagination
// @Tags         profiles
// @Produce      json
// @Param        type       query     string  true   "Profile type (candidate or company)"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /profiles [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profileType := c.Query("type")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	profiles, total, err := h.profileUC.ListProfiles(c.Request.Context(), profileType, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profiles retrieved", gin.H{
		"profiles":  profiles,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProfile godoc
// @Summary      Get a profile
// @Description  Get one profile by ID
// @Tags         profiles
// @Produce      json
// @Param        id  path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid profile ID"))
		return
	}

	profile, err := h.profileUC.GetProfile(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateProfile godoc
// @Summary      Update a profile
// @Description  Edit your own profile. Type and status cannot be changed here.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Profile ID"
// @Param        body  body      UpdateProfileRequest  true  "Profile data"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /profiles/{id} [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	// 1. Get requester profile from context
	requesterID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	// 2. Parse target profile ID
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid profile ID"))
		return
	}

	// 3. Bind request
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile := &domain.Profile{
		ID:          id,
		DisplayName: req.DisplayName,
		Location:    req.Location,
		Phone:       req.Phone,
		About:       req.About,
		Candidate:   req.Candidate,
		Company:     req.Company,
	}

	// 4. Update
	if err := h.profileUC.UpdateProfile(c.Request.Context(), requesterID, profile); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", profile)
}

// ChangeStatus godoc
// @Summary      Change profile status
// @Description  Activate or deactivate a profile. Owners can change their own; admins can change any.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "Profile ID"
// @Param        body  body      ChangeProfileStatusRequest  true  "New status"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /profiles/{id}/status [patch]
// @Security     BearerAuth
func (h *ProfileHandler) ChangeStatus(c *gin.Context) {
	requesterID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid profile ID"))
		return
	}

	var req ChangeProfileStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	// Admins may change any profile's status
	if c.GetString(string(domain.KeyUserRole)) == domain.RoleAdmin {
		requesterID = id
	}

	if err := h.profileUC.ChangeStatus(c.Request.Context(), requesterID, id, req.Status); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile status updated", nil)
}

// SetPreferences godoc
// @Summary      Set profile preferences
// @Description  Merge key/value preferences into your profile. Existing keys are overwritten; others are kept.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Profile ID"
// @Param        body  body      SetPreferencesRequest  true  "Preferences to merge"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /profiles/{id}/preferences [put]
// @Security     BearerAuth
func (h *ProfileHandler) SetPreferences(c *gin.Context) {
	requesterID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid profile ID"))
		return
	}

	var req SetPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := h.profileUC.SetPreferences(c.Request.Context(), requesterID, id, req.Preferences)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Preferences updated", profile)
}

// UploadPhoto godoc
// @Summary      Upload profile photo
// @Description  Upload a profile photo. The image is resized to a 512px thumbnail and stored as JPEG.
// @Tags         profiles
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Profile ID"
// @Param        file  formData  file    true  "Image file"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /profiles/{id}/photo [post]
// @Security     BearerAuth
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	requesterID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid profile ID"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read uploaded file"))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.Error(apperror.BadRequest("Could not read uploaded file"))
		return
	}

	photoURL, err := h.profileUC.UploadPhoto(c.Request.Context(), requesterID, id, domain.FileUpload{
		Name:        file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Photo uploaded successfully", gin.H{"photo_url": photoURL})
}
