package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Home handles GET /api/v1/dashboard
func (h *DashboardHandler) Home(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	home := h.dashboardService.Home(c.Request.Context(), user, tenant.FromContext(c).ID)
	c.JSON(http.StatusOK, response.Success(home))
}
