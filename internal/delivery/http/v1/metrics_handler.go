package v1

import (
	"net/http"

	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MetricsHandler struct {
	metricsUC domain.MetricsUsecase
}

// NewMetricsHandler registers candidate metrics routes
func NewMetricsHandler(protected *gin.RouterGroup, metricsUC domain.MetricsUsecase) {
	handler := &MetricsHandler{metricsUC: metricsUC}

	metrics := protected.Group("/metrics")
	{
		metrics.GET("/summary/:candidateId", handler.Summary)
		metrics.GET("/achievements/:candidateId", handler.Achievements)
		metrics.GET("/counters/offers/:candidateId", handler.OffersCount)
		metrics.GET("/counters/interviews/:candidateId", handler.InterviewsCount)
		metrics.GET("/counters/rejections/:candidateId", handler.RejectionsCount)
	}
}

// candidateID resolves the :candidateId path parameter and enforces that
// candidates only read their own metrics. Admins and reviewers can read any
// candidate's.
func (h *MetricsHandler) candidateID(c *gin.Context) (uuid.UUID, bool) {
	candidateID, err := uuid.Parse(c.Param("candidateId"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid candidate ID"))
		return uuid.Nil, false
	}

	switch c.GetString(string(domain.KeyUserRole)) {
	case domain.RoleAdmin, domain.RoleReviewer:
		return candidateID, true
	case domain.RoleCandidate:
		profileID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
		if err != nil || profileID != candidateID {
			c.Error(apperror.Forbidden("You can only view your own metrics"))
			return uuid.Nil, false
		}
		return candidateID, true
	default:
		c.Error(apperror.Forbidden("You can only view your own metrics"))
		return uuid.Nil, false
	}
}

// Summary godoc
// @Summary      Candidate metrics summary
// @Description  Snapshot of the candidate's applications: totals per state and the offer success rate. Recomputed from current application states on every query; candidates without applications get a zero-filled snapshot.
// @Tags         metrics
// @Produce      json
// @Param        candidateId  path      string  true  "Candidate profile ID"
// @Success      200  {object}  response.Response{data=domain.MetricsSnapshot}
// @Failure      403  {object}  response.Response
// @Router       /metrics/summary/{candidateId} [get]
// @Security     BearerAuth
func (h *MetricsHandler) Summary(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	snapshot, err := h.metricsUC.Summary(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Metrics retrieved", snapshot)
}

// Achievements godoc
// @Summary      Candidate achievements
// @Description  Achievement badges derived from the candidate's metrics snapshot. Recomputed every query from fixed thresholds; nothing is persisted.
// @Tags         metrics
// @Produce      json
// @Param        candidateId  path      string  true  "Candidate profile ID"
// @Success      200  {object}  response.Response{data=[]domain.Achievement}
// @Failure      403  {object}  response.Response
// @Router       /metrics/achievements/{candidateId} [get]
// @Security     BearerAuth
func (h *MetricsHandler) Achievements(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	achievements, err := h.metricsUC.Achievements(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Achievements retrieved", achievements)
}

// OffersCount godoc
// @Summary      Offer counter
// @Tags         metrics
// @Produce      json
// @Param        candidateId  path      string  true  "Candidate profile ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /metrics/counters/offers/{candidateId} [get]
// @Security     BearerAuth
func (h *MetricsHandler) OffersCount(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	count, err := h.metricsUC.OffersCount(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Counter retrieved", gin.H{"offers": count})
}

// InterviewsCount godoc
// @Summary      Interview counter
// @Tags         metrics
// @Produce      json
// @Param        candidateId  path      string  true  "Candidate profile ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /metrics/counters/interviews/{candidateId} [get]
// @Security     BearerAuth
func (h *MetricsHandler) InterviewsCount(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	count, err := h.metricsUC.InterviewsCount(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Counter retrieved", gin.H{"interviews": count})
}

// RejectionsCount godoc
// @Summary      Rejection counter
// @Tags         metrics
// @Produce      json
// @Param        candidateId  path      string  true  "Candidate profile ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /metrics/counters/rejections/{candidateId} [get]
// @Security     BearerAuth
func (h *MetricsHandler) RejectionsCount(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	count, err := h.metricsUC.RejectionsCount(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Counter retrieved", gin.H{"rejections": count})
}
