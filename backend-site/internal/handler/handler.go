// Package handler exposes the site over HTTP: the JSON API under /api/v1 and the server-rendered pages.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
)

// User-facing error messages
const (
	MsgInvalidCredentials = "Email ou senha inválidos"
	MsgRegistrationClosed = "Esta organização não aceita novos cadastros"
	MsgOrganizationAbsent = "Organização não encontrada"
	MsgEmailTaken         = "Este email já está cadastrado"
	MsgChatbotDisabled    = "Chat indisponível para esta corretora"
	MsgLeadNotFound       = "Lead não encontrado"
	MsgInvalidTransition  = "Transição de status não permitida"
	MsgRoleSwitchDisabled = "Troca de perfil desabilitada"
	MsgGenericError       = "Tente novamente ou entre em contato pelo WhatsApp."
)

// validatable is a request with per-field messages
type validatable interface {
	Validate() dto.FieldErrors
}

// bindJSON decodes the body and runs field validation. It writes the error response and returns false on failure.
func bindJSON(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil && !dto.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, response.BadRequest("Requisição inválida"))
		return false
	}
	if errs := req.Validate(); errs != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(errs))
		return false
	}
	return true
}

// bindForm decodes an HTML form and runs field validation. It returns nil when the form is valid.
func bindForm(c *gin.Context, req validatable) dto.FieldErrors {
	if err := c.ShouldBind(req); err != nil && !dto.IsValidationError(err) {
		return dto.FieldErrors{"form": "Requisição inválida"}
	}
	return req.Validate()
}

func secondsToDuration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}

// writeError maps service errors to the response envelope
func writeError(c *gin.Context, err error) {
	span := trace.SpanFromContext(c.Request.Context())
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var (
		code    string
		message string
	)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		code, message = response.ErrCodeInvalidCredentials, MsgInvalidCredentials
	case errors.Is(err, service.ErrRegistrationClosed):
		code, message = response.ErrCodeRegistrationClosed, MsgRegistrationClosed
	case errors.Is(err, service.ErrOrganizationNotFound):
		code, message = response.ErrCodeNotFound, MsgOrganizationAbsent
	case errors.Is(err, service.ErrEmailTaken):
		code, message = response.ErrCodeEmailTaken, MsgEmailTaken
	case errors.Is(err, service.ErrChatbotDisabled):
		code, message = response.ErrCodeChatbotDisabled, MsgChatbotDisabled
	case errors.Is(err, service.ErrRoleSwitchDisabled):
		code, message = response.ErrCodeRoleSwitchDisabled, MsgRoleSwitchDisabled
	case errors.Is(err, domain.ErrLeadNotFound):
		code, message = response.ErrCodeNotFound, MsgLeadNotFound
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		code, message = response.ErrCodeInvalidStatusTransition, MsgInvalidTransition
	default:
		logger.WithContext(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, response.InternalError(""))
		return
	}
	c.JSON(response.GetHTTPStatus(code), response.Error(code, message))
}

// sessionUser rebuilds the authenticated user from the JWT middleware's context values
func sessionUser(c *gin.Context) (*domain.User, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok || id == "" {
		return nil, false
	}
	email, _ := middleware.GetEmail(c)
	name, _ := middleware.GetName(c)
	role, _ := middleware.GetRole(c)
	org, _ := middleware.GetOrganizationID(c)

	return &domain.User{
		ID:             id,
		Email:          email,
		FullName:       name,
		Role:           domain.Role(role),
		OrganizationID: org,
	}, true
}
