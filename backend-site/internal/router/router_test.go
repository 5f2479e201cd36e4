package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/chatbot"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/di"
	"github.com/OttoDev-System/intellicor-saas/pkg/config"
	"github.com/OttoDev-System/intellicor-saas/pkg/kafka"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
)

const host = "demo.intellicor.com.br"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type site struct {
	engine   *gin.Engine
	producer *kafka.MemoryProducer
	cookie   string
}

func newSite(t *testing.T, mutate func(cfg *config.Config)) *site {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.RateLimit.BurstSize = 100
	if mutate != nil {
		mutate(cfg)
	}

	producer := kafka.NewMemoryProducer()
	c, err := di.NewContainer(context.Background(), cfg, logger.Nop(), di.Options{Producer: producer, Delay: chatbot.NoDelay})
	require.NoError(t, err)

	engine, stop := c.Router()
	t.Cleanup(func() {
		stop()
		c.Close()
	})
	return &site{engine: engine, producer: producer, cookie: cfg.JWT.CookieName}
}

func (s *site) do(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	return s.doOn(host, method, path, body, header)
}

func (s *site) doOn(reqHost, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Host = reqHost
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *site) token(t *testing.T, email string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": "Demo1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var env struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data.AccessToken
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestRouter_Probes(t *testing.T) {
	s := newSite(t, nil)

	w := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = s.do(http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_PublicLeadFlow(t *testing.T) {
	s := newSite(t, nil)

	w := s.do(http.MethodPost, "/api/v1/leads/quote", map[string]string{
		"type": "residencial", "name": "Bruno Dias", "email": "bruno@exemplo.com", "phone": "11944443333",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, s.producer.Messages(), 1)

	// listing needs a session
	w = s.do(http.MethodGet, "/api/v1/leads", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// brokers have no lead capability
	w = s.do(http.MethodGet, "/api/v1/leads", nil, bearer(s.token(t, "corretor@demo.com")))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/leads", nil, bearer(s.token(t, "suporte@demo.com")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bruno Dias")
}

func TestRouter_LeadsStayWithinTenant(t *testing.T) {
	s := newSite(t, nil)
	const other = "seguros-sp.intellicor.com.br"

	w := s.doOn(other, http.MethodPost, "/api/v1/leads/quote", map[string]string{
		"type": "auto", "name": "Outra Pessoa", "email": "x@exemplo.com", "phone": "11944443333",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env struct {
		Data struct {
			Lead struct {
				ID string `json:"id"`
			} `json:"lead"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	leadID := env.Data.Lead.ID
	require.NotEmpty(t, leadID)

	// demo sessions belong to the demo brokerage
	support := bearer(s.token(t, "suporte@demo.com"))
	for _, tt := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/v1/leads", nil},
		{http.MethodGet, "/api/v1/leads/" + leadID, nil},
		{http.MethodPatch, "/api/v1/leads/" + leadID + "/status", map[string]string{"status": "CONTACTED"}},
		{http.MethodGet, "/api/v1/dashboard", nil},
	} {
		w = s.doOn(other, tt.method, tt.path, tt.body, support)
		assert.Equal(t, http.StatusForbidden, w.Code, tt.method+" "+tt.path)
		assert.NotContains(t, w.Body.String(), "Outra Pessoa")
	}

	// the dev-host tenant override is bound the same way
	w = s.doOn("localhost:8080", http.MethodGet, "/api/v1/leads?tenant=seguros-sp", nil, support)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/leads", nil, support)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Outra Pessoa")

	req := httptest.NewRequest(http.MethodGet, "/support", nil)
	req.Host = other
	req.AddCookie(&http.Cookie{Name: s.cookie, Value: s.token(t, "suporte@demo.com")})
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminTenants(t *testing.T) {
	s := newSite(t, nil)

	w := s.do(http.MethodGet, "/api/v1/admin/tenants", nil, bearer(s.token(t, "suporte@demo.com")))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/admin/tenants", nil, bearer(s.token(t, "admin@demo.com")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vida-segura")
}

func TestRouter_PagesPastTheEnd(t *testing.T) {
	s := newSite(t, nil)
	const query = "?page=92233720368547760&limit=100"

	w := s.do(http.MethodGet, "/api/v1/leads"+query, nil, bearer(s.token(t, "suporte@demo.com")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"data":[]`)

	w = s.do(http.MethodGet, "/api/v1/admin/tenants"+query, nil, bearer(s.token(t, "admin@demo.com")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestRouter_RoleSwitchRegistration(t *testing.T) {
	off := newSite(t, nil)
	token := off.token(t, "suporte@demo.com")
	w := off.do(http.MethodPost, "/api/v1/auth/switch-role", map[string]string{"role": "admin"}, bearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)

	on := newSite(t, func(cfg *config.Config) { cfg.Auth.RoleSwitchEnabled = true })
	token = on.token(t, "suporte@demo.com")
	w = on.do(http.MethodPost, "/api/v1/auth/switch-role", map[string]string{"role": "admin"}, bearer(token))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouter_SessionCookie(t *testing.T) {
	s := newSite(t, nil)

	form := url.Values{"email": {"admin@demo.com"}, "password": {"Demo1234"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Host = host
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == s.cookie {
			session = c
		}
	}
	require.NotNil(t, session)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Host = host
	req.AddCookie(session)
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Maria Silva Santos")

	req = httptest.NewRequest(http.MethodGet, "/broker", nil)
	req.Host = host
	req.AddCookie(session)
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestRouter_RateLimit(t *testing.T) {
	s := newSite(t, func(cfg *config.Config) {
		cfg.RateLimit.RequestsPerSecond = 1
		cfg.RateLimit.BurstSize = 1
	})

	msg := map[string]string{"message": "oi"}
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/chat/messages", msg, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/v1/chat/messages", msg, nil).Code)

	// unlimited routes are unaffected
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/chat/welcome", nil, nil).Code)
}

func TestRouter_TenantTheme(t *testing.T) {
	s := newSite(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/theme.css", nil)
	req.Host = "seguros-sp.intellicor.com.br"
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "--primary:")
}
