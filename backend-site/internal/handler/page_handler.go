package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dashboard"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/handoff"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/navigation"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/web"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

const (
	landingTitleSuffix = " - Seguros, Planos de Saúde e Consórcios"
	defaultDescription = "Soluções completas em seguros, planos de saúde e consórcios"
	loginPath          = "/login"
)

// LandingPage is the data behind the tenant landing page
type LandingPage struct {
	Tenant         *domain.Tenant
	Title          string
	Description    string
	ThemeCSS       template.CSS
	HeroURL        string
	ContactURL     string
	FloatingURL    string
	AllServicesURL string
	FAQURL         string
	SpecialistURL  string
	Products       []domain.Product
	Interests      []domain.Interest
	Quote          dto.QuoteRequest
	QuoteErrors    dto.FieldErrors
	Contact        dto.ContactRequest
	ContactErrors  dto.FieldErrors
	FormError      string
	ChatbotEnabled bool
}

// AuthPage is the data behind login, register and forgot password
type AuthPage struct {
	Tenant        *domain.Tenant
	Title         string
	Description   string
	ThemeCSS      template.CSS
	Email         string
	FullName      string
	Organization  string
	Organizations []*domain.Organization
	Errors        dto.FieldErrors
	Error         string
	Success       *dto.MessageResponse
	DemoAccounts  bool
}

// NavEntry is a sidebar item with its active state
type NavEntry struct {
	navigation.Item
	Active bool
}

// DashboardPage is the data behind the role dashboards and their sections
type DashboardPage struct {
	Tenant       *domain.Tenant
	Title        string
	Description  string
	ThemeCSS     template.CSS
	User         *domain.User
	Organization *domain.Organization
	Navigation   []NavEntry
	Home         *dashboard.Home
	Section      *navigation.Item
	RoleSwitch   bool
	Roles        []domain.Role
}

// PageHandler renders the server-side pages
type PageHandler struct {
	leadService      service.LeadService
	authService      service.AuthService
	dashboardService service.DashboardService
	cookie           SessionCookie
	demoAccounts     bool
}

// NewPageHandler creates a new PageHandler. demoAccounts shows the mock login hint.
func NewPageHandler(
	leadService service.LeadService,
	authService service.AuthService,
	dashboardService service.DashboardService,
	cookie SessionCookie,
	demoAccounts bool,
) *PageHandler {
	return &PageHandler{
		leadService:      leadService,
		authService:      authService,
		dashboardService: dashboardService,
		cookie:           cookie,
		demoAccounts:     demoAccounts,
	}
}

func themeCSS(c *gin.Context) template.CSS {
	if tc := tenant.ThemeFromContext(c); tc != nil {
		return template.CSS(tc.CSS())
	}
	return ""
}

func (h *PageHandler) landing(c *gin.Context) *LandingPage {
	t := tenant.FromContext(c)
	phone := t.Settings.ContactInfo.Phone

	description := t.Description
	if description == "" {
		description = defaultDescription
	}

	return &LandingPage{
		Tenant:         t,
		Title:          t.Name + landingTitleSuffix,
		Description:    t.Name + " - " + description,
		ThemeCSS:       themeCSS(c),
		HeroURL:        handoff.URL(phone, handoff.HeroMessage),
		ContactURL:     handoff.URL(phone, handoff.ContactSectionMessage(t.Name)),
		FloatingURL:    handoff.URL(phone, handoff.FloatingButtonMessage(t.Name)),
		AllServicesURL: handoff.URL(phone, handoff.AllServicesMessage),
		FAQURL:         handoff.URL(phone, handoff.FAQMessage),
		SpecialistURL:  handoff.URL(phone, handoff.SpecialistMessage),
		Products:       domain.Products,
		Interests:      domain.Interests,
		ChatbotEnabled: t.Settings.ChatbotEnabled,
	}
}

// Landing handles GET /
func (h *PageHandler) Landing(c *gin.Context) {
	middleware.SkipAudit(c)
	c.HTML(http.StatusOK, web.PageLanding, h.landing(c))
}

// SubmitQuote handles the HTML quote form. Success answers 303 to the WhatsApp link.
func (h *PageHandler) SubmitQuote(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.page.quote")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.QuoteRequest
	if errs := bindForm(c, &req); errs != nil {
		page := h.landing(c)
		page.Quote, page.QuoteErrors = req, errs
		c.HTML(http.StatusUnprocessableEntity, web.PageLanding, page)
		return
	}

	result, err := h.leadService.CaptureQuote(ctx, tenant.FromContext(c), &req)
	if err != nil {
		h.formFailure(c, err)
		return
	}

	middleware.SetAuditResourceType(c, "lead")
	middleware.SetAuditResourceID(c, result.Lead.ID)
	c.Redirect(http.StatusSeeOther, result.WhatsAppURL)
}

// SubmitContact handles the HTML contact form
func (h *PageHandler) SubmitContact(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.page.contact")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ContactRequest
	if errs := bindForm(c, &req); errs != nil {
		page := h.landing(c)
		page.Contact, page.ContactErrors = req, errs
		c.HTML(http.StatusUnprocessableEntity, web.PageLanding, page)
		return
	}

	result, err := h.leadService.CaptureContact(ctx, tenant.FromContext(c), &req)
	if err != nil {
		h.formFailure(c, err)
		return
	}

	middleware.SetAuditResourceType(c, "lead")
	middleware.SetAuditResourceID(c, result.Lead.ID)
	c.Redirect(http.StatusSeeOther, result.WhatsAppURL)
}

func (h *PageHandler) formFailure(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context()).Error("lead capture failed", zap.Error(err))
	page := h.landing(c)
	page.FormError = MsgGenericError
	c.HTML(http.StatusInternalServerError, web.PageLanding, page)
}

func (h *PageHandler) authPage(c *gin.Context, title string) *AuthPage {
	return &AuthPage{
		Tenant:       tenant.FromContext(c),
		Title:        title,
		ThemeCSS:     themeCSS(c),
		DemoAccounts: h.demoAccounts,
	}
}

// LoginPage handles GET /login. Signed-in users go straight to their dashboard.
func (h *PageHandler) LoginPage(c *gin.Context) {
	if user, ok := sessionUser(c); ok && tenant.Owns(h.authService, tenant.FromContext(c), user.OrganizationID) {
		c.Redirect(http.StatusFound, user.Role.HomePath())
		return
	}
	c.HTML(http.StatusOK, web.PageLogin, h.authPage(c, "Entrar"))
}

// Login handles POST /login
func (h *PageHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	page := h.authPage(c, "Entrar")

	if errs := bindForm(c, &req); errs != nil {
		page.Email, page.Errors = req.Email, errs
		c.HTML(http.StatusUnprocessableEntity, web.PageLogin, page)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		page.Email = req.Email
		status := http.StatusUnauthorized
		page.Error = MsgInvalidCredentials
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logger.WithContext(c.Request.Context()).Error("login failed", zap.Error(err))
			status, page.Error = http.StatusInternalServerError, MsgGenericError
		}
		c.HTML(status, web.PageLogin, page)
		return
	}

	setSessionCookie(c, h.cookie, result.AccessToken, secondsToDuration(result.ExpiresIn))
	c.Redirect(http.StatusSeeOther, result.RedirectTo)
}

// RegisterPage handles GET /register
func (h *PageHandler) RegisterPage(c *gin.Context) {
	page := h.authPage(c, "Criar conta")
	page.Organizations = h.authService.Organizations(c.Request.Context())
	c.HTML(http.StatusOK, web.PageRegister, page)
}

// Register handles POST /register
func (h *PageHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	page := h.authPage(c, "Criar conta")
	page.Organizations = h.authService.Organizations(c.Request.Context())

	errs := bindForm(c, &req)
	page.Email, page.FullName, page.Organization = req.Email, req.FullName, req.OrganizationID
	if errs != nil {
		page.Errors = errs
		c.HTML(http.StatusUnprocessableEntity, web.PageRegister, page)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, service.ErrRegistrationClosed):
			page.Errors = dto.FieldErrors{"organization_id": MsgRegistrationClosed}
		case errors.Is(err, service.ErrOrganizationNotFound):
			page.Errors = dto.FieldErrors{"organization_id": MsgOrganizationAbsent}
		case errors.Is(err, service.ErrEmailTaken):
			page.Errors = dto.FieldErrors{"email": MsgEmailTaken}
		default:
			logger.WithContext(c.Request.Context()).Error("registration failed", zap.Error(err))
			status, page.Error = http.StatusInternalServerError, MsgGenericError
		}
		c.HTML(status, web.PageRegister, page)
		return
	}

	page.Success = result
	c.HTML(http.StatusCreated, web.PageRegister, page)
}

// ForgotPage handles GET /forgot-password
func (h *PageHandler) ForgotPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.PageForgot, h.authPage(c, "Recuperar senha"))
}

// Forgot handles POST /forgot-password
func (h *PageHandler) Forgot(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	page := h.authPage(c, "Recuperar senha")

	if errs := bindForm(c, &req); errs != nil {
		page.Email, page.Errors = req.Email, errs
		c.HTML(http.StatusUnprocessableEntity, web.PageForgot, page)
		return
	}

	result, err := h.authService.ForgotPassword(c.Request.Context(), &req)
	if err != nil {
		page.Error = MsgGenericError
		c.HTML(http.StatusInternalServerError, web.PageForgot, page)
		return
	}
	page.Success = result
	c.HTML(http.StatusOK, web.PageForgot, page)
}

// Logout handles POST /logout
func (h *PageHandler) Logout(c *gin.Context) {
	tokenID, _ := middleware.GetTokenID(c)
	expiresAt, _ := middleware.GetTokenExpiry(c)
	if err := h.authService.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		logger.WithContext(c.Request.Context()).Warn("token revocation failed", zap.Error(err))
	}

	setSessionCookie(c, h.cookie, "", -1)
	c.Redirect(http.StatusSeeOther, loginPath)
}

// SwitchRole handles POST /switch-role. Only registered when the debug flag is on.
func (h *PageHandler) SwitchRole(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	req := dto.SwitchRoleRequest{Role: c.PostForm("role")}
	if errs := req.Validate(); errs != nil {
		c.Redirect(http.StatusSeeOther, user.Role.HomePath())
		return
	}

	result, err := h.authService.SwitchRole(c.Request.Context(), user, &req)
	if err != nil {
		c.Redirect(http.StatusSeeOther, user.Role.HomePath())
		return
	}

	setSessionCookie(c, h.cookie, result.AccessToken, secondsToDuration(result.ExpiresIn))
	c.Redirect(http.StatusSeeOther, result.RedirectTo)
}

// RequireRole guards a dashboard: anonymous users go to /login, other roles to their own dashboard.
// Sessions of another brokerage get the login form back with 403.
func (h *PageHandler) RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		if !tenant.Owns(h.authService, tenant.FromContext(c), user.OrganizationID) {
			page := h.authPage(c, "Entrar")
			page.Error = tenant.MsgForeignSession
			c.HTML(http.StatusForbidden, web.PageLogin, page)
			c.Abort()
			return
		}
		if user.Role != role {
			c.Redirect(http.StatusFound, user.Role.HomePath())
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *PageHandler) dashboardPage(c *gin.Context, user *domain.User) *DashboardPage {
	path := c.Request.URL.Path
	items := navigation.For(user.Role)
	nav := make([]NavEntry, 0, len(items))
	for _, it := range items {
		nav = append(nav, NavEntry{Item: it, Active: navigation.IsActive(it, path)})
	}

	page := &DashboardPage{
		Tenant:       tenant.FromContext(c),
		Title:        user.Role.Label(),
		ThemeCSS:     themeCSS(c),
		User:         user,
		Organization: h.authService.Organization(user.OrganizationID),
		Navigation:   nav,
		RoleSwitch:   h.authService.RoleSwitchEnabled(),
	}
	if page.RoleSwitch {
		page.Roles = domain.Roles
	}
	return page
}

// Dashboard renders the role home page
func (h *PageHandler) Dashboard(c *gin.Context) {
	user, _ := sessionUser(c)
	page := h.dashboardPage(c, user)
	page.Home = h.dashboardService.Home(c.Request.Context(), user, tenant.FromContext(c).ID)
	c.HTML(http.StatusOK, web.PageDashboard, page)
}

// Section renders a menu sub-page placeholder. Paths outside the role's menu go back home.
func (h *PageHandler) Section(c *gin.Context) {
	user, _ := sessionUser(c)
	item, ok := navigation.Find(user.Role, c.Request.URL.Path)
	if !ok {
		c.Redirect(http.StatusFound, user.Role.HomePath())
		return
	}

	page := h.dashboardPage(c, user)
	page.Title = item.Label
	page.Section = &item
	c.HTML(http.StatusOK, web.PageSection, page)
}
