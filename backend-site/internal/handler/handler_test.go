package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/chatbot"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/event"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/web"
	"github.com/OttoDev-System/intellicor-saas/pkg/kafka"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
)

const (
	testSecret   = "test-secret"
	testCookie   = "intellicor_session"
	demoPassword = "Demo1234"
	demoHost     = "demo.intellicor.com.br"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

// testApp wires real services over in-memory stores
type testApp struct {
	registry   *tenant.Registry
	resolver   *tenant.Resolver
	leads      *repository.MemoryLeadRepository
	producer   *kafka.MemoryProducer
	revocation *repository.MemoryTokenRevocationStore

	leadService      service.LeadService
	chatService      service.ChatService
	authService      service.AuthService
	dashboardService service.DashboardService
	tenantService    service.TenantService
}

func newTestApp(t *testing.T, registry *tenant.Registry, roleSwitch bool) *testApp {
	t.Helper()

	if registry == nil {
		var err error
		registry, err = tenant.LoadEmbedded()
		require.NoError(t, err)
	}

	provider, err := service.NewMockProvider(context.Background(), repository.NewMemoryUserRepository(), demoPassword)
	require.NoError(t, err)

	app := &testApp{
		registry: registry,
		resolver: tenant.NewResolver(registry, tenant.ResolverConfig{
			RootDomain:       "intellicor.com.br",
			DevHosts:         []string{"localhost"},
			DefaultSubdomain: "demo",
		}, logger.Nop(), nil),
		leads:      repository.NewMemoryLeadRepository(),
		producer:   kafka.NewMemoryProducer(),
		revocation: repository.NewMemoryTokenRevocationStore(),
	}

	app.leadService = service.NewLeadService(app.leads, event.NewKafkaLeadPublisher(app.producer, event.DefaultLeadsTopic), nil, logger.Nop())
	app.chatService = service.NewChatService(chatbot.New(chatbot.WithDelay(chatbot.NoDelay), chatbot.WithLogger(logger.Nop())))
	app.authService = service.NewAuthService(provider, registry, app.revocation, service.AuthConfig{
		Secret:            testSecret,
		Issuer:            "intellicor",
		AccessTokenTTL:    time.Hour,
		RoleSwitchEnabled: roleSwitch,
	}, nil, logger.Nop())
	app.dashboardService = service.NewDashboardService(app.leads, app.authService, logger.Nop())
	app.tenantService = service.NewTenantService(registry)
	return app
}

// engine returns a router with tenant resolution and an optional session already applied
func (a *testApp) engine(t *testing.T) *gin.Engine {
	t.Helper()
	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(tenant.Middleware(a.resolver))
	r.Use(middleware.JWTMiddleware(&middleware.JWTConfig{
		Secret:     testSecret,
		CookieName: testCookie,
		Revocation: a.revocation,
		Optional:   true,
	}))
	return r
}

func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	res, err := a.authService.Login(context.Background(), &dto.LoginRequest{Email: email, Password: demoPassword})
	require.NoError(t, err)
	return res.AccessToken
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Host = demoHost
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Host = demoHost
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope decodes the response wrapper, with Data left raw
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	return nil
}
