package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
)

func newTestLeadService(pub *recordingPublisher) (*leadService, *repository.MemoryLeadRepository) {
	repo := repository.NewMemoryLeadRepository()
	svc := NewLeadService(repo, pub, nil, nil).(*leadService)
	svc.now = fixedClock()
	return svc, repo
}

func TestLeadService_CaptureQuote(t *testing.T) {
	pub := &recordingPublisher{}
	svc, repo := newTestLeadService(pub)
	tn := demoTenant(t)

	req := &dto.QuoteRequest{
		Type: "auto", Name: "Maria Silva", Email: "maria@example.com", Phone: "11987654321",
		Details: map[string]string{"model": "Onix"},
	}
	resp, err := svc.CaptureQuote(context.Background(), tn, req)
	require.NoError(t, err)

	assert.Equal(t, QuoteCapturedTitle, resp.Title)
	assert.Equal(t, domain.LeadStatusNew, resp.Lead.Status)
	assert.Equal(t, tn.ID, resp.Lead.TenantID)
	assert.Equal(t, domain.ProductAuto, resp.Lead.Product)
	assert.True(t, hasPrefix(resp.WhatsAppURL, "https://wa.me/5511999999999?text="))

	text := whatsAppText(t, resp.WhatsAppURL)
	assert.Contains(t, text, "cotação de Seguro Auto")
	assert.Contains(t, text, "- Modelo: Onix\n- Ano: Não informado")

	assert.Equal(t, 1, repo.Count())
	require.Len(t, pub.captured, 1)
	assert.Equal(t, resp.Lead.ID, pub.captured[0].ID)
}

func TestLeadService_CaptureContact(t *testing.T) {
	svc, _ := newTestLeadService(&recordingPublisher{})

	resp, err := svc.CaptureContact(context.Background(), demoTenant(t), &dto.ContactRequest{
		Name: "João", Email: "joao@example.com", Phone: "11912345678",
		Interest: "saude", Message: "Quero um plano familiar",
	})
	require.NoError(t, err)
	assert.Equal(t, ContactCapturedTitle, resp.Title)
	assert.Equal(t, domain.LeadKindContact, resp.Lead.Kind)
	assert.Equal(t, domain.InterestSaude, resp.Lead.Interest)

	text := whatsAppText(t, resp.WhatsAppURL)
	assert.Equal(t, "Olá! Meu nome é João e tenho interesse em saude.\n\nDetalhes:\nQuero um plano familiar\n\nContatos:\n- Email: joao@example.com\n- Telefone: 11912345678", text)
}

func TestLeadService_PublishFailureDoesNotFailCapture(t *testing.T) {
	svc, repo := newTestLeadService(&recordingPublisher{err: errPublish})

	_, err := svc.CaptureQuote(context.Background(), demoTenant(t), &dto.QuoteRequest{
		Type: "vida", Name: "Ana", Email: "ana@example.com", Phone: "11900000000",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Count())
}

func TestLeadService_UpdateStatus(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTestLeadService(pub)
	ctx := context.Background()
	tn := demoTenant(t)

	captured, err := svc.CaptureQuote(ctx, tn, &dto.QuoteRequest{
		Type: "saude", Name: "Ana", Email: "ana@example.com", Phone: "11900000000",
	})
	require.NoError(t, err)
	id := captured.Lead.ID

	detail, err := svc.UpdateStatus(ctx, tn.ID, id, "user-suporte", &dto.UpdateLeadStatusRequest{Status: "CONTACTED", Note: "Ligação feita"})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, detail.Lead.Status)
	require.Len(t, detail.Transitions, 1)
	assert.Equal(t, "Ligação feita", detail.Transitions[0].Note)
	assert.Equal(t, []domain.LeadStatus{domain.LeadStatusQualified, domain.LeadStatusLost}, detail.NextStatuses)
	assert.Len(t, pub.changed, 1)

	_, err = svc.UpdateStatus(ctx, tn.ID, id, "user-suporte", &dto.UpdateLeadStatusRequest{Status: "CONVERTED"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	_, err = svc.UpdateStatus(ctx, "2", id, "user-suporte", &dto.UpdateLeadStatusRequest{Status: "QUALIFIED"})
	assert.ErrorIs(t, err, domain.ErrLeadNotFound, "other tenant cannot move the lead")

	got, err := svc.Get(ctx, tn.ID, id)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, got.Lead.Status)
}

func TestLeadService_List(t *testing.T) {
	svc, _ := newTestLeadService(&recordingPublisher{})
	ctx := context.Background()
	tn := demoTenant(t)

	for range 3 {
		_, err := svc.CaptureContact(ctx, tn, &dto.ContactRequest{
			Name: "Cliente", Email: "c@example.com", Phone: "11900000000", Interest: "outros", Message: "Mensagem longa o bastante",
		})
		require.NoError(t, err)
	}

	query := &dto.ListLeadsQuery{Limit: 2}
	leads, total, err := svc.List(ctx, tn.ID, query)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, leads, 2)
	assert.Equal(t, 1, query.Page)

	leads, total, err = svc.List(ctx, "3", &dto.ListLeadsQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, leads)
}
