// Package tenant maps incoming requests to the brokerage that should serve them.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

var (
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrEmptyRegistry      = errors.New("tenant registry is empty")
	ErrEmptySubdomain     = errors.New("tenant subdomain is empty")
	ErrDuplicateSubdomain = errors.New("duplicate tenant subdomain")
	ErrSubdomainCase      = errors.New("tenant subdomain must be lower-case")
)

// Lookup finds tenants by subdomain
type Lookup interface {
	Lookup(ctx context.Context, subdomain string) (*domain.Tenant, error)
	Default() *domain.Tenant
}

// Registry is an immutable, ordered set of tenants keyed by subdomain
type Registry struct {
	tenants     []*domain.Tenant
	bySubdomain map[string]*domain.Tenant
	byID        map[string]*domain.Tenant
}

// NewRegistry validates tenants and builds the registry. Order is preserved; the first entry is the default.
func NewRegistry(tenants []domain.Tenant) (*Registry, error) {
	if len(tenants) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		tenants:     make([]*domain.Tenant, 0, len(tenants)),
		bySubdomain: make(map[string]*domain.Tenant, len(tenants)),
		byID:        make(map[string]*domain.Tenant, len(tenants)),
	}

	for i := range tenants {
		t := tenants[i]
		if strings.TrimSpace(t.Subdomain) == "" {
			return nil, fmt.Errorf("tenant #%d (%s): %w", i, t.Name, ErrEmptySubdomain)
		}
		// hosts are lower-cased before lookup
		if t.Subdomain != strings.ToLower(t.Subdomain) {
			return nil, fmt.Errorf("%w: %s", ErrSubdomainCase, t.Subdomain)
		}
		if _, exists := r.bySubdomain[t.Subdomain]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSubdomain, t.Subdomain)
		}
		if t.ID == "" {
			t.ID = t.Subdomain
		}

		r.tenants = append(r.tenants, &t)
		r.bySubdomain[t.Subdomain] = &t
		r.byID[t.ID] = &t
	}

	return r, nil
}

// Lookup matches the subdomain exactly (case-sensitive)
func (r *Registry) Lookup(_ context.Context, subdomain string) (*domain.Tenant, error) {
	t, ok := r.bySubdomain[subdomain]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return t, nil
}

// Default returns the first registry entry
func (r *Registry) Default() *domain.Tenant {
	return r.tenants[0]
}

// ByID returns the tenant with the given id
func (r *Registry) ByID(id string) (*domain.Tenant, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// All returns the tenants in registry order
func (r *Registry) All() []*domain.Tenant {
	out := make([]*domain.Tenant, len(r.tenants))
	copy(out, r.tenants)
	return out
}

func (r *Registry) Len() int {
	return len(r.tenants)
}

// Organizations returns the auth-side view of every tenant that accepts self-registration, sorted by name
func (r *Registry) Organizations() []*domain.Organization {
	orgs := make([]*domain.Organization, 0, len(r.tenants))
	for _, t := range r.tenants {
		if t.Settings.AllowRegistration {
			orgs = append(orgs, t.Organization())
		}
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs
}

// Search filters tenants whose name or subdomain contains query (case-insensitive) and pages the result
func (r *Registry) Search(query string, page, perPage int) ([]*domain.Tenant, int) {
	q := strings.ToLower(strings.TrimSpace(query))

	matched := make([]*domain.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		if q == "" ||
			strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Subdomain), q) {
			matched = append(matched, t)
		}
	}

	total := len(matched)
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	// same as start >= total, without overflowing
	if total == 0 || page-1 > (total-1)/perPage {
		return []*domain.Tenant{}, total
	}
	start := (page - 1) * perPage
	end := start + min(perPage, total-start)
	return matched[start:end], total
}
