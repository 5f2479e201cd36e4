package dto

import "github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"

// TenantResponse is the admin listing view of a registry entry
type TenantResponse struct {
	ID                string             `json:"id"`
	Subdomain         string             `json:"subdomain"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Logo              string             `json:"logo,omitempty"`
	Theme             domain.ThemeColors `json:"theme"`
	ChatbotEnabled    bool               `json:"chatbot_enabled"`
	AllowRegistration bool               `json:"allow_registration"`
	Features          []string           `json:"features,omitempty"`
}

func NewTenantResponse(t *domain.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:                t.ID,
		Subdomain:         t.Subdomain,
		Name:              t.Name,
		Description:       t.Description,
		Logo:              t.Logo,
		Theme:             t.Theme,
		ChatbotEnabled:    t.Settings.ChatbotEnabled,
		AllowRegistration: t.Settings.AllowRegistration,
		Features:          t.Settings.Features,
	}
}

// ListTenantsQuery represents query parameters for listing tenants
type ListTenantsQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search" binding:"omitempty,max=255"`
}

// SetDefaults sets default values for query parameters
func (q *ListTenantsQuery) SetDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
}
