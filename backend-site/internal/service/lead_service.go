package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/event"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/handoff"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

// Confirmation copy shown after a form submission
const (
	QuoteCapturedTitle     = "Cotação solicitada!"
	QuoteCapturedMessage   = "Você será redirecionado para o WhatsApp. Nossa equipe retornará em até 1 hora."
	ContactCapturedTitle   = "Mensagem enviada!"
	ContactCapturedMessage = "Você será redirecionado para o WhatsApp para finalizar o contato."
)

// LeadService captures landing page leads and moves them along the pipeline
type LeadService interface {
	// CaptureQuote stores a quote request and builds its WhatsApp handoff
	CaptureQuote(ctx context.Context, tenant *domain.Tenant, req *dto.QuoteRequest) (*dto.LeadCapturedResponse, error)
	// CaptureContact stores a contact request and builds its WhatsApp handoff
	CaptureContact(ctx context.Context, tenant *domain.Tenant, req *dto.ContactRequest) (*dto.LeadCapturedResponse, error)
	// List returns a page of the tenant's leads and the total count
	List(ctx context.Context, tenantID string, query *dto.ListLeadsQuery) ([]*domain.Lead, int, error)
	// Get returns a lead with its status history
	Get(ctx context.Context, tenantID, id string) (*dto.LeadDetailResponse, error)
	// UpdateStatus applies a pipeline transition
	UpdateStatus(ctx context.Context, tenantID, id, changedBy string, req *dto.UpdateLeadStatusRequest) (*dto.LeadDetailResponse, error)
}

type leadService struct {
	repo      repository.LeadRepository
	publisher event.LeadPublisher
	metrics   *telemetry.SiteMetrics
	log       *logger.Logger
	now       func() time.Time
}

// NewLeadService creates a new LeadService
func NewLeadService(repo repository.LeadRepository, publisher event.LeadPublisher, metrics *telemetry.SiteMetrics, log *logger.Logger) LeadService {
	if metrics == nil {
		metrics = telemetry.NopSiteMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &leadService{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		log:       log.Named("leads"),
		now:       time.Now,
	}
}

func (s *leadService) CaptureQuote(ctx context.Context, tenant *domain.Tenant, req *dto.QuoteRequest) (*dto.LeadCapturedResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.lead.capture_quote")
	defer span.End()

	lead := s.newLead(tenant, domain.LeadKindQuote, req.Name, req.Email, req.Phone)
	lead.Product = req.Product()
	lead.CPF = req.CPF
	lead.Details = req.Details
	lead.WhatsAppURL = handoff.URL(tenant.Settings.ContactInfo.Phone, handoff.QuoteMessage(handoff.QuoteRequest{
		Product: lead.Product,
		Name:    lead.Name,
		Email:   lead.Email,
		Phone:   lead.Phone,
		Details: lead.Details,
	}))

	if err := s.capture(ctx, lead); err != nil {
		return nil, err
	}
	return &dto.LeadCapturedResponse{
		Lead:        lead,
		WhatsAppURL: lead.WhatsAppURL,
		Title:       QuoteCapturedTitle,
		Message:     QuoteCapturedMessage,
	}, nil
}

func (s *leadService) CaptureContact(ctx context.Context, tenant *domain.Tenant, req *dto.ContactRequest) (*dto.LeadCapturedResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.lead.capture_contact")
	defer span.End()

	lead := s.newLead(tenant, domain.LeadKindContact, req.Name, req.Email, req.Phone)
	lead.Interest = domain.Interest(req.Interest)
	lead.Message = req.Message
	lead.WhatsAppURL = handoff.URL(tenant.Settings.ContactInfo.Phone, handoff.ContactMessage(handoff.ContactRequest{
		Name:     lead.Name,
		Email:    lead.Email,
		Phone:    lead.Phone,
		Interest: lead.Interest,
		Message:  lead.Message,
	}))

	if err := s.capture(ctx, lead); err != nil {
		return nil, err
	}
	return &dto.LeadCapturedResponse{
		Lead:        lead,
		WhatsAppURL: lead.WhatsAppURL,
		Title:       ContactCapturedTitle,
		Message:     ContactCapturedMessage,
	}, nil
}

func (s *leadService) newLead(tenant *domain.Tenant, kind domain.LeadKind, name, email, phone string) *domain.Lead {
	now := s.now()
	return &domain.Lead{
		ID:        uuid.New().String(),
		TenantID:  tenant.ID,
		Kind:      kind,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Status:    domain.LeadStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// capture stores the lead, then publishes best-effort
func (s *leadService) capture(ctx context.Context, lead *domain.Lead) error {
	if err := s.repo.Create(ctx, lead); err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("store lead: %w", err)
	}

	s.metrics.LeadsCaptured.Inc(ctx, telemetry.TenantAttr(lead.TenantID), telemetry.LeadKindAttr(string(lead.Kind)))

	if err := s.publisher.LeadCaptured(ctx, lead); err != nil {
		s.log.WarnContext(ctx, "failed to publish lead event",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
	}

	s.log.InfoContext(ctx, "lead captured",
		zap.String("lead_id", lead.ID),
		zap.String("kind", string(lead.Kind)),
	)
	return nil
}

func (s *leadService) List(ctx context.Context, tenantID string, query *dto.ListLeadsQuery) ([]*domain.Lead, int, error) {
	query.SetDefaults()
	return s.repo.List(ctx, repository.LeadFilter{
		TenantID: tenantID,
		Status:   domain.LeadStatus(query.Status),
		Kind:     domain.LeadKind(query.Kind),
		Limit:    query.Limit,
		Offset:   query.Offset(),
	})
}

func (s *leadService) Get(ctx context.Context, tenantID, id string) (*dto.LeadDetailResponse, error) {
	lead, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, lead)
}

func (s *leadService) UpdateStatus(ctx context.Context, tenantID, id, changedBy string, req *dto.UpdateLeadStatusRequest) (*dto.LeadDetailResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.lead.update_status")
	defer span.End()

	lead, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	target := domain.LeadStatus(req.Status)
	if !lead.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, lead.Status, target)
	}

	now := s.now()
	transition := &domain.LeadTransition{
		ID:        uuid.New().String(),
		LeadID:    lead.ID,
		From:      lead.Status,
		To:        target,
		ChangedBy: changedBy,
		Note:      req.Note,
		Timestamp: now,
	}
	lead.UpdatedAt = now

	if err := s.repo.UpdateStatus(ctx, lead, transition); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStatusTransition, err)
		}
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	lead.Status = target

	s.metrics.LeadTransitions.Inc(ctx, telemetry.TenantAttr(tenantID), telemetry.LeadStatusAttr(string(target)))
	if err := s.publisher.LeadStatusChanged(ctx, lead, transition); err != nil {
		s.log.WarnContext(ctx, "failed to publish lead status event",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
	}

	return s.detail(ctx, lead)
}

func (s *leadService) detail(ctx context.Context, lead *domain.Lead) (*dto.LeadDetailResponse, error) {
	transitions, err := s.repo.GetTransitions(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LeadDetailResponse{
		Lead:         lead,
		Transitions:  transitions,
		NextStatuses: lead.Status.NextStatuses(),
	}, nil
}
