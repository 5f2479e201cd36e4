package repository

import (
	"context"
	"errors"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

// ErrStatusConflict is returned when a lead's status changed between read and update
var ErrStatusConflict = errors.New("lead status changed concurrently")

// LeadFilter narrows a lead listing. Zero values mean no filter.
type LeadFilter struct {
	TenantID string
	Status   domain.LeadStatus
	Kind     domain.LeadKind
	Limit    int
	Offset   int
}

// LeadRepository defines the interface for lead data access
type LeadRepository interface {
	// Create stores a new lead
	Create(ctx context.Context, lead *domain.Lead) error
	// GetByID retrieves a lead of a tenant, ErrLeadNotFound when missing
	GetByID(ctx context.Context, tenantID, id string) (*domain.Lead, error)
	// List returns a page of leads, newest first, and the total matching count
	List(ctx context.Context, filter LeadFilter) ([]*domain.Lead, int, error)
	// UpdateStatus moves a lead from transition.From to transition.To and records the transition atomically
	UpdateStatus(ctx context.Context, lead *domain.Lead, transition *domain.LeadTransition) error
	// GetTransitions returns the status history of a lead, oldest first
	GetTransitions(ctx context.Context, leadID string) ([]*domain.LeadTransition, error)
}
