package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

// MemoryLeadRepository keeps leads in process memory. Used when no database is configured.
type MemoryLeadRepository struct {
	mu          sync.RWMutex
	leads       map[string]*domain.Lead
	transitions map[string][]*domain.LeadTransition
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{
		leads:       make(map[string]*domain.Lead),
		transitions: make(map[string][]*domain.LeadTransition),
	}
}

func (r *MemoryLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.leads[lead.ID]; exists {
		return fmt.Errorf("lead %s already exists", lead.ID)
	}
	r.leads[lead.ID] = copyLead(lead)
	return nil
}

func (r *MemoryLeadRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok || lead.TenantID != tenantID {
		return nil, domain.ErrLeadNotFound
	}
	return copyLead(lead), nil
}

func (r *MemoryLeadRepository) List(ctx context.Context, filter LeadFilter) ([]*domain.Lead, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Lead, 0)
	for _, l := range r.leads {
		if filter.TenantID != "" && l.TenantID != filter.TenantID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && l.Kind != filter.Kind {
			continue
		}
		matched = append(matched, l)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if filter.Offset < 0 || filter.Offset >= total {
		return []*domain.Lead{}, total, nil
	}
	start := filter.Offset
	end := total
	if filter.Limit > 0 {
		end = start + min(filter.Limit, total-start)
	}

	out := make([]*domain.Lead, 0, end-start)
	for _, l := range matched[start:end] {
		out = append(out, copyLead(l))
	}
	return out, total, nil
}

func (r *MemoryLeadRepository) UpdateStatus(ctx context.Context, lead *domain.Lead, transition *domain.LeadTransition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.leads[lead.ID]
	if !ok {
		return domain.ErrLeadNotFound
	}
	if stored.Status != transition.From {
		return ErrStatusConflict
	}

	stored.Status = transition.To
	stored.UpdatedAt = lead.UpdatedAt

	t := *transition
	r.transitions[lead.ID] = append(r.transitions[lead.ID], &t)
	return nil
}

func (r *MemoryLeadRepository) GetTransitions(ctx context.Context, leadID string) ([]*domain.LeadTransition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.transitions[leadID]
	out := make([]*domain.LeadTransition, len(src))
	for i, t := range src {
		c := *t
		out[i] = &c
	}
	return out, nil
}

// Count returns the number of stored leads (for testing)
func (r *MemoryLeadRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}

func copyLead(l *domain.Lead) *domain.Lead {
	if l == nil {
		return nil
	}
	c := *l
	if l.Details != nil {
		c.Details = make(map[string]string, len(l.Details))
		for k, v := range l.Details {
			c.Details[k] = v
		}
	}
	return &c
}
