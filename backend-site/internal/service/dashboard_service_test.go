package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dashboard"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
)

type staticOrgs struct{}

func (staticOrgs) Organization(id string) *domain.Organization {
	if id == MockOrganizationID {
		return MockOrganization()
	}
	return nil
}

func TestDashboardService_Home(t *testing.T) {
	repo := repository.NewMemoryLeadRepository()
	svc := NewDashboardService(repo, staticOrgs{}, nil)
	ctx := context.Background()
	users := DemoUsers()

	admin := svc.Home(ctx, users[domain.RoleAdmin], "1")
	assert.Equal(t, "Bem-vindo, Maria!", admin.Greeting)
	assert.Equal(t, "Visão geral da Corretora Demo INTELLICOR", admin.Subtitle)

	broker := svc.Home(ctx, users[domain.RoleCorretor], "1")
	assert.Len(t, broker.RecentQuotes, 3)

	support := svc.Home(ctx, users[domain.RoleSuporte], "1")
	assert.Equal(t, dashboard.PlaceholderLeads, support.RecentLeads, "placeholder until leads arrive")

	leads, _ := newTestLeadService(&recordingPublisher{})
	leads.repo = repo
	_, err := leads.CaptureQuote(ctx, demoTenant(t), &dto.QuoteRequest{
		Type: "consorcio", Name: "Roberto", Email: "r@example.com", Phone: "11900000000",
	})
	require.NoError(t, err)

	support = svc.Home(ctx, users[domain.RoleSuporte], "1")
	require.Len(t, support.RecentLeads, 1)
	assert.Equal(t, "Roberto", support.RecentLeads[0].Name)
	assert.Equal(t, "Consórcio", support.RecentLeads[0].Interest)
	assert.Equal(t, "Alta", support.RecentLeads[0].Priority)
}
