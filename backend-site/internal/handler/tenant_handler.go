package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
)

// TenantHandler exposes the resolved tenant and the registry
type TenantHandler struct {
	tenantService service.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Current handles GET /api/v1/tenant
func (h *TenantHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(tenant.FromContext(c)))
}

// GetBySubdomain handles GET /api/v1/admin/tenants/:subdomain
func (h *TenantHandler) GetBySubdomain(c *gin.Context) {
	t, err := h.tenantService.GetBySubdomain(c.Request.Context(), c.Param("subdomain"))
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Corretora não encontrada"))
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewTenantResponse(t)))
}

// List handles GET /api/v1/admin/tenants
func (h *TenantHandler) List(c *gin.Context) {
	var query dto.ListTenantsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.tenantService.List(c.Request.Context(), &query)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(result.Tenants, result.Page, result.Limit, int64(result.TotalCount)))
}

// ThemeCSS handles GET /theme.css
func (h *TenantHandler) ThemeCSS(c *gin.Context) {
	tc := h.tenantService.Theme(tenant.FromContext(c))
	defer tc.Release()

	css := tc.CSS()
	c.Header("Cache-Control", "no-cache")
	c.Header("Vary", "Host")
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
}
