package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

// SessionCookie configures the HttpOnly access token cookie
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService service.AuthService
	cookie      SessionCookie
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.login")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	middleware.SetAuditMetadata(c, map[string]interface{}{"email": req.Email})

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	span.SetAttributes(attribute.String("user_id", result.User.ID), attribute.String("role", string(result.User.Role)))
	h.setCookie(c, result)
	c.JSON(http.StatusOK, response.Success(result))
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.register")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	span.SetAttributes(attribute.String("organization_id", req.OrganizationID))

	result, err := h.authService.Register(ctx, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuditResourceType(c, "user")
	c.JSON(http.StatusCreated, response.Success(result))
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.ForgotPassword(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, _ := middleware.GetTokenID(c)
	expiresAt, _ := middleware.GetTokenExpiry(c)

	if err := h.authService.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		// the cookie is cleared anyway
		logger.WithContext(c.Request.Context()).Warn("token revocation failed", zap.Error(err))
	}

	h.clearCookie(c)
	c.JSON(http.StatusOK, response.Success(dto.MessageResponse{Message: "Sessão encerrada"}))
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}
	c.JSON(http.StatusOK, response.Success(h.authService.Me(c.Request.Context(), user)))
}

// SwitchRole handles POST /api/v1/auth/switch-role. Only registered when the debug flag is on.
func (h *AuthHandler) SwitchRole(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	var req dto.SwitchRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.SwitchRole(c.Request.Context(), user, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuditMetadata(c, map[string]interface{}{"from_role": string(user.Role), "to_role": req.Role})
	h.setCookie(c, result)
	c.JSON(http.StatusOK, response.Success(result))
}

// Organizations handles GET /api/v1/auth/organizations
func (h *AuthHandler) Organizations(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(h.authService.Organizations(c.Request.Context())))
}

func (h *AuthHandler) setCookie(c *gin.Context, result *dto.AuthResponse) {
	setSessionCookie(c, h.cookie, result.AccessToken, secondsToDuration(result.ExpiresIn))
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	setSessionCookie(c, h.cookie, "", -1)
}

func setSessionCookie(c *gin.Context, cookie SessionCookie, value string, maxAge time.Duration) {
	seconds := int(maxAge.Seconds())
	if maxAge < 0 {
		seconds = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, value, seconds, "/", "", cookie.Secure, true)
}
