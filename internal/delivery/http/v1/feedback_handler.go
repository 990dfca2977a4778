package v1

import (
	"net/http"

	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FeedbackHandler struct {
	feedbackUC domain.FeedbackUsecase
}

// NewFeedbackHandler registers recruiter feedback routes
func NewFeedbackHandler(protected *gin.RouterGroup, feedbackUC domain.FeedbackUsecase) {
	handler := &FeedbackHandler{feedbackUC: feedbackUC}

	feedback := protected.Group("/feedback")
	{
		feedback.POST("", handler.SendFeedback)
		feedback.GET("/:id", handler.GetFeedback)
	}

	// Candidate and owner view of one application's feedback thread
	applications := protected.Group("/applications")
	{
		applications.GET("/:id/feedback", handler.ListByApplication)
	}
}

// SendFeedbackRequest is the payload for recruiter feedback
type SendFeedbackRequest struct {
	ApplicationID string `json:"application_id" binding:"required,uuid"`
	Type          string `json:"type" binding:"required,oneof=approval rejection comment other"`
	Message       string `json:"message" binding:"required"`
	RejectReason  string `json:"reject_reason"`
}

// SendFeedback godoc
// @Summary      Send feedback to a candidate
// @Description  Recruiter feedback on an application. Rejection feedback requires a reason. Approval drives the application to offer and rejection drives it to rejected through the regular lifecycle rules.
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        feedback  body      SendFeedbackRequest  true  "Feedback details"
// @Success      201  {object}  response.Response{data=domain.Feedback}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /feedback [post]
// @Security     BearerAuth
func (h *FeedbackHandler) SendFeedback(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can send feedback"))
		return
	}

	companyID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	var req SendFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	fb := &domain.Feedback{
		ApplicationID: applicationID,
		Type:          domain.FeedbackType(req.Type),
		Message:       req.Message,
	}
	if req.RejectReason != "" {
		fb.RejectReason = &req.RejectReason
	}

	sent, err := h.feedbackUC.SendFeedback(c.Request.Context(), companyID, fb)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Feedback sent", sent)
}

// GetFeedback godoc
// @Summary      Get feedback
// @Description  Get one feedback record. Only the candidate behind the application and the company that sent it can read it.
// @Tags         feedback
// @Produce      json
// @Param        id  path      string  true  "Feedback ID"
// @Success      200  {object}  response.Response{data=domain.Feedback}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /feedback/{id} [get]
// @Security     BearerAuth
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	requesterID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid feedback ID"))
		return
	}

	fb, err := h.feedbackUC.GetFeedback(c.Request.Context(), requesterID, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Feedback retrieved", fb)
}

// ListByApplication godoc
// @Summary      List feedback for an application
// @Description  List all feedback on one application, visible to the candidate and the posting owner.
// @Tags         feedback
// @Produce      json
// @Param        id  path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=[]domain.Feedback}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/feedback [get]
// @Security     BearerAuth
func (h *FeedbackHandler) ListByApplication(c *gin.Context) {
	requesterID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	items, err := h.feedbackUC.ListByApplication(c.Request.Context(), requesterID, applicationID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Feedback retrieved", items)
}
