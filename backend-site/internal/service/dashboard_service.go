package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dashboard"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
)

// OrganizationLookup resolves a user's organization
type OrganizationLookup interface {
	Organization(id string) *domain.Organization
}

// DashboardService builds the role dashboards
type DashboardService interface {
	// Home returns the landing view of the user's role. Support users see the tenant's newest leads.
	Home(ctx context.Context, user *domain.User, tenantID string) *dashboard.Home
}

type dashboardService struct {
	leads     repository.LeadRepository
	orgs      OrganizationLookup
	formatter *dashboard.Formatter
	log       *logger.Logger
}

func NewDashboardService(leads repository.LeadRepository, orgs OrganizationLookup, log *logger.Logger) DashboardService {
	if log == nil {
		log = logger.Nop()
	}
	return &dashboardService{
		leads:     leads,
		orgs:      orgs,
		formatter: dashboard.BrazilianFormatter(),
		log:       log.Named("dashboard"),
	}
}

func (s *dashboardService) Home(ctx context.Context, user *domain.User, tenantID string) *dashboard.Home {
	orgName := ""
	if org := s.orgs.Organization(user.OrganizationID); org != nil {
		orgName = org.Name
	}

	home := dashboard.Build(user, orgName, s.formatter)
	if user.Role != domain.RoleSuporte {
		return home
	}

	recent, _, err := s.leads.List(ctx, repository.LeadFilter{TenantID: tenantID, Limit: 4})
	if err != nil {
		s.log.WarnContext(ctx, "failed to load recent leads", zap.Error(err))
		return home
	}
	return home.WithLeads(recent)
}
