package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

func TestFormatter(t *testing.T) {
	f := BrazilianFormatter()

	assert.Equal(t, "R$ 45.280", f.Money(45280))
	assert.Equal(t, "R$ 2.450,00", f.MoneyCents(2450))
	assert.Equal(t, "R$ 890,00", f.MoneyCents(890))
	assert.Equal(t, "1.234.567", f.Count(1234567))
	assert.Equal(t, "68%", f.Percent(68))
	assert.Equal(t, "+12%", f.Change(12))
	assert.Equal(t, "+8,2%", f.Change(8.2))
	assert.Equal(t, "-15%", f.Change(-15))
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Maria", FirstName("Maria Silva Santos"))
	assert.Equal(t, "", FirstName("  "))
}

func TestBuild(t *testing.T) {
	f := BrazilianFormatter()

	admin := Build(&domain.User{FullName: "Maria Silva Santos", Role: domain.RoleAdmin}, "Corretora Demo INTELLICOR", f)
	assert.Equal(t, "Bem-vindo, Maria!", admin.Greeting)
	assert.Equal(t, "Visão geral da Corretora Demo INTELLICOR", admin.Subtitle)
	require.Len(t, admin.Stats, 4)
	assert.Equal(t, "R$ 45.280", admin.Stats[1].Value)
	assert.Len(t, admin.Activities, 4)
	assert.Empty(t, admin.RecentQuotes)

	broker := Build(&domain.User{FullName: "João Carlos Oliveira", Role: domain.RoleCorretor}, "x", f)
	assert.Equal(t, "Olá, João!", broker.Greeting)
	require.Len(t, broker.RecentQuotes, 3)
	assert.Equal(t, "R$ 2.450,00", broker.RecentQuotes[0].Value)
	require.NotNil(t, broker.Goal)
	assert.Equal(t, 78, broker.Goal.Percent)
	assert.Equal(t, "R$ 15.600 / R$ 20.000", broker.Stats[3].Description)

	support := Build(&domain.User{FullName: "Ana Paula Costa", Role: domain.RoleSuporte}, "x", f)
	assert.Equal(t, "Central de atendimento e gestão de leads", support.Subtitle)
	assert.Len(t, support.RecentLeads, 4)
	assert.Equal(t, TrendDown, support.Stats[1].Trend)
}

func TestHome_WithLeads(t *testing.T) {
	f := BrazilianFormatter()
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	var leads []*domain.Lead
	for i := 0; i < 6; i++ {
		leads = append(leads, &domain.Lead{
			ID:        fmt.Sprintf("lead-%d", i),
			Kind:      domain.LeadKindQuote,
			Product:   domain.ProductAuto,
			Name:      "Cliente",
			Status:    domain.LeadStatusNew,
			CreatedAt: now,
		})
	}
	leads[1] = &domain.Lead{ID: "c", Kind: domain.LeadKindContact, Interest: domain.InterestSaude, Status: domain.LeadStatusQualified, CreatedAt: now}

	support := Build(&domain.User{Role: domain.RoleSuporte}, "x", f).WithLeads(leads)
	require.Len(t, support.RecentLeads, 4)
	assert.Equal(t, "Seguro Auto", support.RecentLeads[0].Interest)
	assert.Equal(t, "Alta", support.RecentLeads[0].Priority)
	assert.Equal(t, "Planos de Saúde", support.RecentLeads[1].Interest)
	assert.Equal(t, "Média", support.RecentLeads[1].Priority)
	assert.Equal(t, "10/03 14:30", support.RecentLeads[0].Time)

	// placeholders stay when there is nothing captured yet
	empty := Build(&domain.User{Role: domain.RoleSuporte}, "x", f).WithLeads(nil)
	assert.Equal(t, PlaceholderLeads, empty.RecentLeads)

	broker := Build(&domain.User{Role: domain.RoleCorretor}, "x", f).WithLeads(leads)
	assert.Empty(t, broker.RecentLeads)
}
