package service

import (
	"context"
	"errors"
	"math"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/theme"
)

var ErrTenantNotFound = errors.New("tenant not found")

// ListTenantsResponse is a page of registry entries
type ListTenantsResponse struct {
	Tenants    []dto.TenantResponse `json:"tenants"`
	TotalCount int                  `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// TenantService exposes the read-only tenant registry
type TenantService interface {
	// GetBySubdomain retrieves a tenant by subdomain
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error)
	// List retrieves tenants with pagination and search
	List(ctx context.Context, query *dto.ListTenantsQuery) (*ListTenantsResponse, error)
	// Organizations lists organizations open for self registration
	Organizations(ctx context.Context) []*domain.Organization
	// Theme derives the style properties of a tenant
	Theme(t *domain.Tenant) *theme.Context
}

type tenantService struct {
	registry *tenant.Registry
}

// NewTenantService creates a new TenantService
func NewTenantService(registry *tenant.Registry) TenantService {
	return &tenantService{registry: registry}
}

func (s *tenantService) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	t, err := s.registry.Lookup(ctx, subdomain)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tenantService) List(ctx context.Context, query *dto.ListTenantsQuery) (*ListTenantsResponse, error) {
	query.SetDefaults()

	tenants, total := s.registry.Search(query.Search, query.Page, query.Limit)

	out := make([]dto.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, *dto.NewTenantResponse(t))
	}

	return &ListTenantsResponse{
		Tenants:    out,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}, nil
}

func (s *tenantService) Organizations(ctx context.Context) []*domain.Organization {
	return s.registry.Organizations()
}

func (s *tenantService) Theme(t *domain.Tenant) *theme.Context {
	return theme.NewContext(t.Theme)
}
