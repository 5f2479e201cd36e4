package dto

import (
	"strings"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/navigation"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/permission"
)

// Auth form messages
const (
	MsgPasswordRequired  = "Senha é obrigatória"
	MsgPasswordMin       = "Senha deve ter pelo menos 8 caracteres"
	MsgPasswordUpper     = "Senha deve conter pelo menos uma letra maiúscula"
	MsgPasswordLower     = "Senha deve conter pelo menos uma letra minúscula"
	MsgPasswordDigit     = "Senha deve conter pelo menos um número"
	MsgPasswordMismatch  = "Senhas não coincidem"
	MsgOrganization      = "Selecione uma organização"
	MsgRole              = "Perfil inválido"
	MsgRegisterSucceeded = "Conta criada com sucesso! Verifique seu email para ativar a conta."
	MsgResetEmailSent    = "Verifique sua caixa de entrada e siga as instruções para redefinir sua senha."
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

var loginMessages = map[string]FieldMessage{
	"Email":    {JSON: "email", Message: MsgEmail},
	"Password": {JSON: "password", Message: MsgPasswordRequired},
}

func (r *LoginRequest) Validate() FieldErrors {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validate(r, loginMessages).OrNil()
}

type RegisterRequest struct {
	FullName        string `json:"full_name" form:"full_name" binding:"min=2"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	OrganizationID  string `json:"organization_id" form:"organization_id" binding:"required"`
}

var registerMessages = map[string]FieldMessage{
	"FullName":       {JSON: "full_name", Message: MsgName},
	"Email":          {JSON: "email", Message: MsgEmail},
	"Password":       {JSON: "password", Message: MsgPasswordMin},
	"OrganizationID": {JSON: "organization_id", Message: MsgOrganization},
}

// Validate runs the tag rules plus password complexity and confirmation
func (r *RegisterRequest) Validate() FieldErrors {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.OrganizationID = strings.TrimSpace(r.OrganizationID)

	errs := validate(r, registerMessages)
	if msg := PasswordComplexity(r.Password); msg != "" {
		errs.Add("password", msg)
	}
	if r.Password != r.ConfirmPassword {
		errs.Add("confirm_password", MsgPasswordMismatch)
	}
	return errs.OrNil()
}

// PasswordComplexity returns the first unmet password rule, empty when the password is acceptable
func PasswordComplexity(password string) string {
	if len([]rune(password)) < 8 {
		return MsgPasswordMin
	}

	var upper, lower, digit bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		}
	}

	switch {
	case !upper:
		return MsgPasswordUpper
	case !lower:
		return MsgPasswordLower
	case !digit:
		return MsgPasswordDigit
	}
	return ""
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

var forgotPasswordMessages = map[string]FieldMessage{
	"Email": {JSON: "email", Message: MsgEmail},
}

func (r *ForgotPasswordRequest) Validate() FieldErrors {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validate(r, forgotPasswordMessages).OrNil()
}

type SwitchRoleRequest struct {
	Role string `json:"role" form:"role" binding:"required,oneof=admin corretor suporte"`
}

var switchRoleMessages = map[string]FieldMessage{
	"Role": {JSON: "role", Message: MsgRole},
}

func (r *SwitchRoleRequest) Validate() FieldErrors {
	return validate(r, switchRoleMessages).OrNil()
}

// AuthResponse is returned by login, register and role switch
type AuthResponse struct {
	AccessToken  string               `json:"access_token"`
	TokenType    string               `json:"token_type"`
	ExpiresIn    int64                `json:"expires_in"`
	User         *domain.User         `json:"user"`
	Organization *domain.Organization `json:"organization,omitempty"`
	RedirectTo   string               `json:"redirect_to"`
}

// MessageResponse carries a user-facing confirmation
type MessageResponse struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// MeResponse is the current session
type MeResponse struct {
	User         *domain.User            `json:"user"`
	Organization *domain.Organization    `json:"organization,omitempty"`
	Capabilities []permission.Capability `json:"capabilities"`
	Navigation   []navigation.Item       `json:"navigation"`
	RoleSwitch   bool                    `json:"role_switch"`
}
