// Package router assembles the gin engine: middleware chain, API routes and pages.
package router

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/handler"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/permission"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

// Handlers groups every HTTP handler
type Handlers struct {
	Health    *handler.HealthHandler
	Tenant    *handler.TenantHandler
	Lead      *handler.LeadHandler
	Chat      *handler.ChatHandler
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Page      *handler.PageHandler
}

// Config holds the cross-cutting pieces of the middleware chain
type Config struct {
	ServiceName  string
	Logger       *logger.Logger
	AllowOrigins []string
	Resolver     *tenant.Resolver
	Metrics      *telemetry.SiteMetrics
	Templates    *template.Template

	// Organizations binds sessions to the tenant they were issued for
	Organizations tenant.OrganizationLookup

	JWTSecret  string
	CookieName string
	Revocation middleware.RevocationChecker
	RoleSwitch bool

	RateLimit middleware.RateLimitConfig
	// Audit is optional
	Audit *middleware.AuditLogger
}

var quietPaths = []string{"/health", "/ready", "/theme.css"}

// New builds the engine. The returned stop func releases the rate limiter.
func New(cfg Config, h Handlers) (*gin.Engine, func()) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Get()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NopSiteMetrics()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(cfg.Logger, quietPaths...))
	r.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig(cfg.AllowOrigins)))
	r.Use(telemetry.TracingMiddleware(cfg.ServiceName))
	r.Use(cfg.Metrics.MetricsMiddleware())

	if cfg.Templates != nil {
		r.SetHTMLTemplate(cfg.Templates)
	}

	// Probes answer before tenant resolution
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	site := r.Group("/")
	site.Use(tenant.Middleware(cfg.Resolver))
	if cfg.Audit != nil {
		site.Use(middleware.AuditMiddleware(cfg.Audit))
	}

	optionalSession := middleware.JWTMiddleware(&middleware.JWTConfig{
		Secret:     cfg.JWTSecret,
		CookieName: cfg.CookieName,
		Revocation: cfg.Revocation,
		Optional:   true,
		Logger:     cfg.Logger,
	})
	requireSession := middleware.JWTMiddleware(&middleware.JWTConfig{
		Secret:     cfg.JWTSecret,
		CookieName: cfg.CookieName,
		Revocation: cfg.Revocation,
		Logger:     cfg.Logger,
	})

	limit, stop := middleware.RateLimiter(cfg.RateLimit)

	registerAPI(site.Group("/api/v1"), cfg, h, limit, optionalSession, requireSession)
	registerPages(site, cfg, h, limit, optionalSession)

	return r, stop
}

func registerAPI(api *gin.RouterGroup, cfg Config, h Handlers, limit, optionalSession, requireSession gin.HandlerFunc) {
	api.GET("/tenant", h.Tenant.Current)

	member := tenant.RequireMember(cfg.Organizations)

	leads := api.Group("/leads")
	{
		leads.POST("/quote", limit, h.Lead.CaptureQuote)
		leads.POST("/contact", limit, h.Lead.CaptureContact)
		leads.GET("", requireSession, member, permission.RequirePermission(permission.ResourceLeads, permission.ActionRead), h.Lead.List)
		leads.GET("/:id", requireSession, member, permission.RequirePermission(permission.ResourceLeads, permission.ActionRead), h.Lead.Get)
		leads.PATCH("/:id/status", requireSession, member, permission.RequirePermission(permission.ResourceLeads, permission.ActionUpdate), h.Lead.UpdateStatus)
	}

	chat := api.Group("/chat")
	{
		chat.GET("/welcome", h.Chat.Welcome)
		chat.POST("/messages", limit, h.Chat.Reply)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", limit, h.Auth.Login)
		auth.POST("/register", limit, h.Auth.Register)
		auth.POST("/forgot-password", limit, h.Auth.ForgotPassword)
		auth.GET("/organizations", h.Auth.Organizations)
		auth.POST("/logout", optionalSession, h.Auth.Logout)
		auth.GET("/me", requireSession, h.Auth.Me)
		if cfg.RoleSwitch {
			auth.POST("/switch-role", requireSession, h.Auth.SwitchRole)
		}
	}

	api.GET("/dashboard", requireSession, member, h.Dashboard.Home)

	admin := api.Group("/admin", requireSession, permission.RequirePermission(permission.ResourceOrganization, permission.ActionRead))
	{
		admin.GET("/tenants", h.Tenant.List)
		admin.GET("/tenants/:subdomain", h.Tenant.GetBySubdomain)
	}
}

func registerPages(site *gin.RouterGroup, cfg Config, h Handlers, limit, optionalSession gin.HandlerFunc) {
	site.GET("/", h.Page.Landing)
	site.GET("/theme.css", h.Tenant.ThemeCSS)
	site.POST("/quote", limit, h.Page.SubmitQuote)
	site.POST("/contact", limit, h.Page.SubmitContact)

	pages := site.Group("/", optionalSession)
	{
		pages.GET("/login", h.Page.LoginPage)
		pages.POST("/login", limit, h.Page.Login)
		pages.GET("/register", h.Page.RegisterPage)
		pages.POST("/register", limit, h.Page.Register)
		pages.GET("/forgot-password", h.Page.ForgotPage)
		pages.POST("/forgot-password", limit, h.Page.Forgot)
		pages.POST("/logout", h.Page.Logout)
		if cfg.RoleSwitch {
			pages.POST("/switch-role", h.Page.SwitchRole)
		}

		dashboards := map[string]domain.Role{
			"/admin":   domain.RoleAdmin,
			"/broker":  domain.RoleCorretor,
			"/support": domain.RoleSuporte,
		}
		for prefix, role := range dashboards {
			g := pages.Group(prefix, h.Page.RequireRole(role))
			g.GET("", h.Page.Dashboard)
			g.GET("/:section", h.Page.Section)
		}
	}
}
