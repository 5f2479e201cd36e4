package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dashboard"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

func TestDashboardHandler_Home(t *testing.T) {
	app := newTestApp(t, nil, false)
	leads := NewLeadHandler(app.leadService)
	h := NewDashboardHandler(app.dashboardService)
	r := app.engine(t)
	r.POST("/leads/quote", leads.CaptureQuote)
	r.GET("/dashboard", h.Home)

	w := doJSON(r, http.MethodGet, "/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/leads/quote", "", validQuote()).Code)

	w = doJSON(r, http.MethodGet, "/dashboard", app.login(t, "suporte@demo.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var home dashboard.Home
	decodeData(t, w, &home)
	assert.Equal(t, domain.RoleSuporte, home.Role)
	require.Len(t, home.RecentLeads, 1)
	assert.Equal(t, "Maria Souza", home.RecentLeads[0].Name)

	w = doJSON(r, http.MethodGet, "/dashboard", app.login(t, "admin@demo.com"), nil)
	decodeData(t, w, &home)
	assert.Equal(t, domain.RoleAdmin, home.Role)
	assert.NotEmpty(t, home.Stats)
}
