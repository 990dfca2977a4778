package v1

import (
	"net/http"
	"strconv"

	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// NewJobHandler registers job posting routes
func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	// Public routes: anyone can browse open postings
	jobs := public.Group("/jobs")
	{
		jobs.GET("", handler.ListOpenJobs)
		jobs.GET("/:id", handler.GetJob)
	}

	// Employer routes
	employers := protected.Group("/employers")
	{
		employers.POST("/jobs", handler.CreateJob)
		employers.GET("/jobs", handler.ListMyJobs)
		employers.PUT("/jobs/:jobId", handler.UpdateJob)
		employers.POST("/jobs/:jobId/close", handler.CloseJob)
		employers.POST("/jobs/:jobId/reopen", handler.ReopenJob)
	}

	// Admin routes
	admin := protected.Group("/admin")
	{
		admin.GET("/jobs", handler.ListAllJobs)
	}
}

// RequirementRequest is one requirement in a posting payload
type RequirementRequest struct {
	Type        string `json:"type" binding:"required"`
	Description string `json:"description" binding:"required"`
	Mandatory   bool   `json:"mandatory"`
}

// JobRequest is the payload for creating or updating a posting
type JobRequest struct {
	Title        string               `json:"title" binding:"required,no_emoji"`
	Description  string               `json:"description" binding:"required"`
	Location     string               `json:"location"`
	SalaryMin    float64              `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax    float64              `json:"salary_max" binding:"omitempty,min=0"`
	Currency     string               `json:"currency" binding:"omitempty,currency_code"`
	ContractType string               `json:"contract_type" binding:"required,contract_type"`
	Requirements []RequirementRequest `json:"requirements"`
}

func (r *JobRequest) toDomain() *domain.Job {
	job := &domain.Job{
		Title:        r.Title,
		Description:  r.Description,
		Location:     r.Location,
		SalaryMin:    r.SalaryMin,
		SalaryMax:    r.SalaryMax,
		Currency:     r.Currency,
		ContractType: domain.ContractType(r.ContractType),
	}
	for _, req := range r.Requirements {
		job.Requirements = append(job.Requirements, domain.Requirement{
			Type:        req.Type,
			Description: req.Description,
			Mandatory:   req.Mandatory,
		})
	}
	return job
}

// ListOpenJobs godoc
// @Summary      List open job postings
// @Description  Browse open postings with pagination. Public endpoint.
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Items per page"
// @Success      200  {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) ListOpenJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	jobs, total, err := h.jobUC.ListOpenJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", gin.H{
		"jobs":      jobs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetJob godoc
// @Summary      Get a job posting
// @Description  Get one posting by ID. Public endpoint.
// @Tags         jobs
// @Produce      json
// @Param        id  path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// CreateJob godoc
// @Summary      Create a job posting
// @Description  Publish a new posting (Company only). The posting opens immediately.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      JobRequest  true  "Posting data"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/jobs [post]
// @Security     BearerAuth
func (h *JobHandler) CreateJob(c *gin.Context) {
	// 1. Get company profile from context
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can publish job postings"))
		return
	}

	companyID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	// 2. Bind request
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	// 3. Create
	job := req.toDomain()
	if err := h.jobUC.CreateJob(c.Request.Context(), companyID, job); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job posting published", job)
}

// ListMyJobs godoc
// @Summary      List my job postings
// @Description  List postings owned by the current company, open and closed alike.
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Items per page"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can list their job postings"))
		return
	}

	companyID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	jobs, total, err := h.jobUC.ListCompanyJobs(c.Request.Context(), companyID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", gin.H{
		"jobs":      jobs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateJob godoc
// @Summary      Update a job posting
// @Description  Edit an open posting you own. Closed postings are frozen.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        jobId  path      string      true  "Job ID"
// @Param        body   body      JobRequest  true  "Posting data"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/jobs/{jobId} [put]
// @Security     BearerAuth
func (h *JobHandler) UpdateJob(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can edit job postings"))
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

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job := req.toDomain()
	job.ID = jobID

	if err := h.jobUC.UpdateJob(c.Request.Context(), companyID, job); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job posting updated", job)
}

// CloseJob godoc
// @Summary      Close a job posting
// @Description  Stop accepting applications for a posting you own.
// @Tags         jobs
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/jobs/{jobId}/close [post]
// @Security     BearerAuth
func (h *JobHandler) CloseJob(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can close job postings"))
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

	job, err := h.jobUC.CloseJob(c.Request.Context(), companyID, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job posting closed", job)
}

// ReopenJob godoc
// @Summary      Reopen a job posting
// @Description  Resume accepting applications for a closed posting you own.
// @Tags         jobs
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/jobs/{jobId}/reopen [post]
// @Security     BearerAuth
func (h *JobHandler) ReopenJob(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can reopen job postings"))
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

	job, err := h.jobUC.ReopenJob(c.Request.Context(), companyID, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job posting reopened", job)
}

// ListAllJobs godoc
// @Summary      List all job postings
// @Description  List every posting on the platform regardless of status (Admin and reviewer only).
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Items per page"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListAllJobs(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleAdmin && role != domain.RoleReviewer {
		c.Error(apperror.Forbidden("Only admins can list all job postings"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	jobs, total, err := h.jobUC.ListAllJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", gin.H{
		"jobs":      jobs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
