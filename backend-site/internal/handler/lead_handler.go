package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

// LeadHandler handles quote/contact capture and the lead pipeline
type LeadHandler struct {
	leadService service.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// CaptureQuote handles POST /api/v1/leads/quote
func (h *LeadHandler) CaptureQuote(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.lead.quote")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	t := tenant.FromContext(c)
	span.SetAttributes(attribute.String("tenant", t.Subdomain), attribute.String("product", req.Type))

	result, err := h.leadService.CaptureQuote(ctx, t, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuditResourceType(c, "lead")
	middleware.SetAuditResourceID(c, result.Lead.ID)
	c.JSON(http.StatusCreated, response.Success(result))
}

// CaptureContact handles POST /api/v1/leads/contact
func (h *LeadHandler) CaptureContact(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.lead.contact")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	t := tenant.FromContext(c)
	span.SetAttributes(attribute.String("tenant", t.Subdomain), attribute.String("interest", req.Interest))

	result, err := h.leadService.CaptureContact(ctx, t, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuditResourceType(c, "lead")
	middleware.SetAuditResourceID(c, result.Lead.ID)
	c.JSON(http.StatusCreated, response.Success(result))
}

// List handles GET /api/v1/leads
func (h *LeadHandler) List(c *gin.Context) {
	var query dto.ListLeadsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	leads, total, err := h.leadService.List(c.Request.Context(), tenant.FromContext(c).ID, &query)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(leads, query.Page, query.Limit, int64(total)))
}

// Get handles GET /api/v1/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	result, err := h.leadService.Get(c.Request.Context(), tenant.FromContext(c).ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// UpdateStatus handles PATCH /api/v1/leads/:id/status
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.lead.update_status")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.UpdateLeadStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	userID, _ := middleware.GetUserID(c)
	span.SetAttributes(attribute.String("lead_id", id), attribute.String("status", req.Status))

	middleware.SetAuditResourceType(c, "lead")
	middleware.SetAuditResourceID(c, id)

	result, err := h.leadService.UpdateStatus(ctx, tenant.FromContext(c).ID, id, userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuditNewValues(c, map[string]interface{}{"status": req.Status, "note": req.Note})
	c.JSON(http.StatusOK, response.Success(result))
}
