package domain

import (
	"time"
)

// Role is the closed set of dashboard roles
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCorretor Role = "corretor"
	RoleSuporte  Role = "suporte"
)

// Roles lists every role in display order
var Roles = []Role{RoleAdmin, RoleCorretor, RoleSuporte}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCorretor, RoleSuporte:
		return true
	}
	return false
}

// HomePath is the dashboard a role lands on
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleCorretor:
		return "/broker"
	default:
		return "/support"
	}
}

// Label is the Portuguese display name of the role
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleCorretor:
		return "Corretor"
	case RoleSuporte:
		return "Suporte"
	}
	return string(r)
}

// User is an authenticated dashboard user
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Role           Role      `json:"role"`
	OrganizationID string    `json:"organization_id"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Organization is the brokerage a user belongs to
type Organization struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Subdomain         string            `json:"subdomain"`
	Logo              string            `json:"logo,omitempty"`
	Theme             OrganizationTheme `json:"theme"`
	Features          []string          `json:"features"`
	AllowRegistration bool              `json:"allow_registration"`
}

type OrganizationTheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}
