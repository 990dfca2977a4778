package v1

import (
	"net/http"
	"time"

	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the company-to-candidate contact log routes
func NewContactHandler(protected *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{contactUC: contactUC}

	contacts := protected.Group("/contacts")
	{
		contacts.POST("", handler.LogContact)
		contacts.GET("/:id", handler.GetContact)
		contacts.PATCH("/:id", handler.AmendContact)
		contacts.PATCH("/:id/read", handler.MarkRead)
	}

	applications := protected.Group("/applications")
	{
		applications.GET("/:id/contacts", handler.ListByApplication)
	}
}

// LogContactRequest is the payload for logging a contact entry
type LogContactRequest struct {
	ApplicationID string     `json:"application_id" binding:"required,uuid"`
	Type          string     `json:"type" binding:"required,oneof=email call interview other"`
	Content       string     `json:"content" binding:"required"`
	ContactedAt   *time.Time `json:"contacted_at"`
}

// AmendContactRequest is the payload for correcting a logged entry
type AmendContactRequest struct {
	Type    string `json:"type" binding:"required,oneof=email call interview other"`
	Content string `json:"content" binding:"required"`
}

// LogContact godoc
// @Summary      Log a contact with a candidate
// @Description  Record that the company reached out to an application's candidate (email, call, interview or other). Entries start unread; the candidate marks them read.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        contact  body      LogContactRequest  true  "Contact details"
// @Success      201  {object}  response.Response{data=domain.ContactMessage}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contacts [post]
// @Security     BearerAuth
func (h *ContactHandler) LogContact(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can log contacts"))
		return
	}

	companyID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	var req LogContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	msg := &domain.ContactMessage{
		ApplicationID: applicationID,
		Type:          domain.ContactType(req.Type),
		Content:       req.Content,
	}
	if req.ContactedAt != nil {
		msg.ContactedAt = *req.ContactedAt
	}

	logged, err := h.contactUC.LogContact(c.Request.Context(), companyID, msg)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Contact logged", logged)
}

// GetContact godoc
// @Summary      Get a contact entry
// @Description  Get one contact log entry. Only the company that logged it and the candidate it is addressed to can read it.
// @Tags         contacts
// @Produce      json
// @Param        id  path      string  true  "Contact ID"
// @Success      200  {object}  response.Response{data=domain.ContactMessage}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contacts/{id} [get]
// @Security     BearerAuth
func (h *ContactHandler) GetContact(c *gin.Context) {
	requesterID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid contact ID"))
		return
	}

	msg, err := h.contactUC.GetContact(c.Request.Context(), requesterID, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Contact retrieved", msg)
}

// AmendContact godoc
// @Summary      Amend a contact entry
// @Description  Correct the type or content of an entry the company logged earlier. The candidate's read flag is not touched.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Contact ID"
// @Param        contact  body      AmendContactRequest  true  "Corrected details"
// @Success      200  {object}  response.Response{data=domain.ContactMessage}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contacts/{id} [patch]
// @Security     BearerAuth
func (h *ContactHandler) AmendContact(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCompany {
		c.Error(apperror.Forbidden("Only companies can amend contacts"))
		return
	}

	companyID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid contact ID"))
		return
	}

	var req AmendContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	msg, err := h.contactUC.AmendContact(c.Request.Context(), companyID, id, req.Type, req.Content)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Contact updated", msg)
}

// MarkRead godoc
// @Summary      Mark a contact entry as read
// @Description  Candidate acknowledges a contact entry. Marking an already-read entry succeeds without change.
// @Tags         contacts
// @Produce      json
// @Param        id  path      string  true  "Contact ID"
// @Success      200  {object}  response.Response{data=domain.ContactMessage}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contacts/{id}/read [patch]
// @Security     BearerAuth
func (h *ContactHandler) MarkRead(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can mark contacts as read"))
		return
	}

	candidateID, err := uuid.Parse(c.GetString(string(domain.KeyProfileID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid contact ID"))
		return
	}

	msg, err := h.contactUC.MarkRead(c.Request.Context(), candidateID, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Contact marked as read", msg)
}

// ListByApplication godoc
// @Summary      List contacts for an application
// @Description  List the contact log of one application, visible to the candidate and the posting owner. Filterable by type and read state.
// @Tags         contacts
// @Produce      json
// @Param        id    path   string  true   "Application ID"
// @Param        type  query  string  false  "Filter by contact type"  Enums(email, call, interview, other)
// @Param        read  query  bool    false  "Filter by read state"
// @Success      200  {object}  response.Response{data=[]domain.ContactMessage}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/contacts [get]
// @Security     BearerAuth
func (h *ContactHandler) ListByApplication(c *gin.Context) {
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

	var filter domain.ContactFilter
	if raw := c.Query("type"); raw != "" {
		ctype, ok := domain.ParseContactType(raw)
		if !ok {
			c.Error(apperror.BadRequest("Unknown contact type: " + raw))
			return
		}
		filter.Type = &ctype
	}
	if raw := c.Query("read"); raw != "" {
		read := raw == "true"
		filter.Read = &read
	}

	items, err := h.contactUC.ListByApplication(c.Request.Context(), requesterID, applicationID, filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Contacts retrieved", items)
}
