package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
)

func pageRoutes(t *testing.T, app *testApp) http.Handler {
	h := NewPageHandler(app.leadService, app.authService, app.dashboardService, SessionCookie{Name: testCookie}, true)
	r := app.engine(t)
	r.GET("/", h.Landing)
	r.POST("/quote", h.SubmitQuote)
	r.POST("/contact", h.SubmitContact)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)
	r.GET("/forgot-password", h.ForgotPage)
	r.POST("/forgot-password", h.Forgot)
	r.POST("/logout", h.Logout)
	r.POST("/switch-role", h.SwitchRole)

	for _, role := range domain.Roles {
		g := r.Group(role.HomePath(), h.RequireRole(role))
		g.GET("", h.Dashboard)
		g.GET("/:section", h.Section)
	}
	return r
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = demoHost
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginCookie(t *testing.T, r http.Handler, email string) *http.Cookie {
	t.Helper()
	w := doForm(r, "/login", url.Values{"email": {email}, "password": {demoPassword}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	return cookie
}

func TestPageHandler_Landing(t *testing.T) {
	r := pageRoutes(t, newTestApp(t, nil, false))

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Corretora Demo - Seguros, Planos de Saúde e Consórcios</title>")
	assert.Contains(t, body, "--primary:")
	assert.Contains(t, body, "https://wa.me/55")
	assert.Contains(t, body, `action="/quote"`)
	assert.Contains(t, body, "/api/v1/chat/welcome")
}

func TestPageHandler_SubmitQuote(t *testing.T) {
	app := newTestApp(t, nil, false)
	r := pageRoutes(t, app)

	w := doForm(r, "/quote", url.Values{
		"type":  {"vida"},
		"name":  {"Paulo Reis"},
		"email": {"paulo@exemplo.com"},
		"phone": {"11966665555"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://wa.me/55"))
	assert.Equal(t, 1, app.leads.Count())

	w = doForm(r, "/quote", url.Values{"type": {"vida"}, "name": {"P"}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), dto.MsgName)
	assert.Contains(t, w.Body.String(), dto.MsgEmail)
	assert.Equal(t, 1, app.leads.Count())
}

func TestPageHandler_SubmitContact(t *testing.T) {
	app := newTestApp(t, nil, false)
	r := pageRoutes(t, app)

	w := doForm(r, "/contact", url.Values{
		"name":     {"Lucia Alves"},
		"email":    {"lucia@exemplo.com"},
		"phone":    {"11955554444"},
		"interest": {"consorcio"},
		"message":  {"Tenho interesse em consórcio de imóveis"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, 1, app.leads.Count())

	w = doForm(r, "/contact", url.Values{"name": {"Lucia"}, "interest": {"pets"}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), dto.MsgInterest)
}

func TestPageHandler_Login(t *testing.T) {
	r := pageRoutes(t, newTestApp(t, nil, false))

	w := get(r, "/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@demo.com")

	w = doForm(r, "/login", url.Values{"email": {"admin@demo.com"}, "password": {"errada123"}})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), MsgInvalidCredentials)

	w = doForm(r, "/login", url.Values{"email": {"corretor@demo.com"}, "password": {demoPassword}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/broker", w.Header().Get("Location"))

	// already signed in
	w = get(r, "/login", sessionCookie(w))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/broker", w.Header().Get("Location"))
}

func TestPageHandler_Register(t *testing.T) {
	r := pageRoutes(t, newTestApp(t, nil, false))

	w := get(r, "/register")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Seguros São Paulo")

	form := url.Values{
		"full_name":        {"Rita Gomes"},
		"email":            {"rita@exemplo.com"},
		"password":         {"Segura123"},
		"confirm_password": {"Segura123"},
		"organization_id":  {"3"},
	}
	w = doForm(r, "/register", form)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), MsgRegistrationClosed)

	form.Set("organization_id", "2")
	w = doForm(r, "/register", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), dto.MsgRegisterSucceeded)

	w = doForm(r, "/register", form)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), MsgEmailTaken)
}

func TestPageHandler_Forgot(t *testing.T) {
	r := pageRoutes(t, newTestApp(t, nil, false))

	require.Equal(t, http.StatusOK, get(r, "/forgot-password").Code)

	w := doForm(r, "/forgot-password", url.Values{"email": {"alguem@exemplo.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), dto.MsgResetEmailSent)

	w = doForm(r, "/forgot-password", url.Values{"email": {"invalido"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPageHandler_DashboardGuards(t *testing.T) {
	r := pageRoutes(t, newTestApp(t, nil, false))

	w := get(r, "/admin")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookie := loginCookie(t, r, "suporte@demo.com")

	w = get(r, "/admin", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/support", w.Header().Get("Location"))

	w = get(r, "/support", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana Paula Costa")

	w = get(r, "/support/tickets", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Esta seção estará disponível em breve.")

	w = get(r, "/support/unknown", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/support", w.Header().Get("Location"))
}

func TestPageHandler_LogoutAndSwitchRole(t *testing.T) {
	r := pageRoutes(t, newTestApp(t, nil, true))
	cookie := loginCookie(t, r, "suporte@demo.com")

	w := doForm(r, "/switch-role", url.Values{"role": {"admin"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	admin := sessionCookie(w)
	require.NotNil(t, admin)
	require.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)

	w = doForm(r, "/logout", nil, admin)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// the revoked token is ignored even if the browser resends it
	w = get(r, "/admin", admin)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
