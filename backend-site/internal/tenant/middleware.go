package tenant

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/theme"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
)

// Context keys
const (
	ContextKeyTenant = "tenant"
	ContextKeyTheme  = "theme"
	QueryParam       = "tenant"
)

// Middleware resolves the tenant once per request and stores it with its theme context.
// The theme is released once the handlers return.
func Middleware(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := RequestContext{
			Host:   c.Request.Host,
			Query:  c.Query(QueryParam),
			Header: c.GetHeader(middleware.TenantHeader),
		}

		t := r.Resolve(c.Request.Context(), rc)

		tc := theme.NewContext(t.Theme)
		c.Set(ContextKeyTenant, t)
		c.Set(ContextKeyTheme, tc)
		c.Request = c.Request.WithContext(logger.ContextWithTenant(c.Request.Context(), t.Subdomain))
		middleware.SetAuditTenant(c, t.Subdomain)

		c.Next()
		tc.Release()
	}
}

// MsgForeignSession is returned when a session is used on another brokerage's site
const MsgForeignSession = "Sua conta não pertence a esta corretora"

// OrganizationLookup resolves the organization a session claims
type OrganizationLookup interface {
	Organization(id string) *domain.Organization
}

// Owns reports whether organization orgID runs tenant t. Organizations map to tenants by subdomain.
func Owns(orgs OrganizationLookup, t *domain.Tenant, orgID string) bool {
	if orgs == nil || t == nil || orgID == "" {
		return false
	}
	org := orgs.Organization(orgID)
	return org != nil && org.Subdomain == t.Subdomain
}

// RequireMember aborts with 403 unless the session belongs to the resolved tenant.
// It must run after the JWT middleware.
func RequireMember(orgs OrganizationLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, _ := middleware.GetOrganizationID(c)
		if !Owns(orgs, FromContext(c), orgID) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden(MsgForeignSession))
			return
		}
		c.Next()
	}
}

// FromContext returns the resolved tenant, nil when the middleware did not run
func FromContext(c *gin.Context) *domain.Tenant {
	if v, ok := c.Get(ContextKeyTenant); ok {
		if t, ok := v.(*domain.Tenant); ok {
			return t
		}
	}
	return nil
}

// ThemeFromContext returns the per-request theme context
func ThemeFromContext(c *gin.Context) *theme.Context {
	if v, ok := c.Get(ContextKeyTheme); ok {
		if tc, ok := v.(*theme.Context); ok {
			return tc
		}
	}
	if t := FromContext(c); t != nil {
		return theme.NewContext(t.Theme)
	}
	return nil
}
