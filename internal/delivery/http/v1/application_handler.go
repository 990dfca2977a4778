package v1

import (
	"io"
	"net/http"

	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes. Document uploads share
// the profile-photo rate limit, so the router passes it in as uploadLimiter.
func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase, uploadLimiter gin.HandlerFunc) {
	handler := &ApplicationHandler{appUC: appUC}

	applications := protected.Group("/applications")
	{
		applications.POST("", handler.Apply)
		applications.GET("/mine", handler.ListMine)
		applications.GET("/:id", handler.GetApplication)
		applications.PATCH("/:id/status", handler.UpdateStatus)
		applications.POST("/:id/review", handler.ReviewApplication)
		applications.POST("/:id/documents", uploadLimiter, handler.AttachDocument)
	}

	// Employer views over a posting's applications
	employers := protected.Group("/employers")
	{
		employers.GET("/jobs/:jobId/applications", handler.ListByJob)
		employers.GET("/jobs/:jobId/applications/export", handler.ExportByJob)
	}
}

// DocumentRefRequest is one document reference attached at application time
type DocumentRefRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

// ApplyRequest is the payload for submitting an application
type ApplyRequest struct {
	JobID     string               `json:"job_id" binding:"required,uuid"`
	Documents []DocumentRefRequest `json:"documents"`
}

// UpdateStatusRequest carries the requested lifecycle status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,app_status"`
}

// ReviewRequest carries a recruiter's status decision and comment
type ReviewRequest struct {
	Status  string `json:"status" binding:"required,app_status"`
	Comment string `json:"comment"`
}

// Apply godoc
// @Summary      Apply to a job posting
// @Description  Submit an application to an open posting. The application starts in pending with one timeline entry. Duplicate applications to the same posting are rejected.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application  body      ApplyRequest  true  "Job and optional document references"
// @Success      201  {object}  response.Response{data=domain.Application}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can apply to job postings"))
		return
	}

	candidateID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	var docs []domain.DocumentRef
	for _, d := range req.Documents {
		docs = append(docs, domain.DocumentRef{Name: d.Name, URL: d.URL})
	}

	app, err := h.appUC.Apply(c.Request.Context(), candidateID, jobID, docs)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// ListMine godoc
// @Summary      List my applications
// @Description  List all applications of the authenticated candidate.
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      401  {object}  response.Response
// @Router       /applications/mine [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	candidateID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	apps, err := h.appUC.ListMine(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// GetApplication godoc
// @Summary      Get an application
// @Description  Get one application with its full timeline. Candidates can only read their own applications.
// @Tags         applications
// @Produce      json
// @Param        id  path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	app, err := h.appUC.GetApplication(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	// Candidates may only see their own applications; company ownership is
	// checked by the per-job listing endpoints instead.
	if c.GetString(string(domain.KeyUserRole)) == domain.RoleCandidate {
		profileID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
		if err != nil || app.CandidateID != profileID {
			c.Error(apperror.Forbidden("You do not own this application"))
			return
		}
	}

	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// UpdateStatus godoc
// @Summary      Update application status
// @Description  Move an application through its lifecycle. Unknown statuses and transitions the lifecycle does not allow are rejected without side effects.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path      string               true  "Application ID"
// @Param        status  body      UpdateStatusRequest  true  "Requested status"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleAdmin && role != domain.RoleReviewer {
		c.Error(apperror.Forbidden("Only admins and reviewers can update status directly"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.appUC.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", app)
}

// ReviewApplication godoc
// @Summary      Review an application
// @Description  Company status decision on an application to one of its postings. The review comment is recorded on the timeline entry for the transition.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path      string         true  "Application ID"
// @Param        review  body      ReviewRequest  true  "Requested status and comment"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id}/review [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ReviewApplication(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can review applications"))
		return
	}

	companyID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.appUC.ReviewApplication(c.Request.Context(), companyID, id, req.Status, req.Comment)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application reviewed", app)
}

// AttachDocument godoc
// @Summary      Upload an application document
// @Description  Upload a document (CV, certificate) and attach its reference to the application.
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Application ID"
// @Param        file  formData  file    true  "Document file"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/documents [post]
// @Security     BearerAuth
func (h *ApplicationHandler) AttachDocument(c *gin.Context) {
	candidateID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
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

	app, err := h.appUC.AttachDocument(c.Request.Context(), candidateID, id, domain.FileUpload{
		Name:        file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Document attached", app)
}

// ListByJob godoc
// @Summary      List applications for a posting
// @Description  List all applications to one of the company's postings.
// @Tags         applications
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/jobs/{jobId}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can list a posting's applications"))
		return
	}

	companyID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	apps, err := h.appUC.ListByJob(c.Request.Context(), companyID, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// ExportByJob godoc
// @Summary      Export applications as a spreadsheet
// @Description  Download all applications to one of the company's postings as an .xlsx report.
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        jobId  path      string  true  "Job ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/jobs/{jobId}/applications/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ExportByJob(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can export a posting's applications"))
		return
	}

	companyID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	data, filename, err := h.appUC.ExportByJob(c.Request.Context(), companyID, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
