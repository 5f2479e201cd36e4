package repository

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

func newLead(id, tenantID string, kind domain.LeadKind, createdAt time.Time) *domain.Lead {
	return &domain.Lead{
		ID:        id,
		TenantID:  tenantID,
		Kind:      kind,
		Name:      "Maria Silva",
		Email:     "maria@example.com",
		Phone:     "11999999999",
		Status:    domain.LeadStatusNew,
		Details:   map[string]string{"model": "Onix"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryLeadRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryLeadRepository()
	ctx := context.Background()
	lead := newLead("lead-1", "demo", domain.LeadKindQuote, time.Now())

	require.NoError(t, repo.Create(ctx, lead))
	assert.Error(t, repo.Create(ctx, lead), "duplicate id")

	got, err := repo.GetByID(ctx, "demo", "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.Name)

	got.Details["model"] = "changed"
	again, _ := repo.GetByID(ctx, "demo", "lead-1")
	assert.Equal(t, "Onix", again.Details["model"], "stored copy must not alias")

	_, err = repo.GetByID(ctx, "seguros-sp", "lead-1")
	assert.ErrorIs(t, err, domain.ErrLeadNotFound, "other tenant cannot read it")

	_, err = repo.GetByID(ctx, "demo", "missing")
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)
}

func TestMemoryLeadRepository_List(t *testing.T) {
	repo := NewMemoryLeadRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := range 5 {
		kind := domain.LeadKindQuote
		if i%2 == 1 {
			kind = domain.LeadKindContact
		}
		require.NoError(t, repo.Create(ctx, newLead(fmt.Sprintf("lead-%d", i), "demo", kind, base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, newLead("other", "vida-segura", domain.LeadKindQuote, base)))

	leads, total, err := repo.List(ctx, LeadFilter{TenantID: "demo", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, leads, 2)
	assert.Equal(t, "lead-4", leads[0].ID, "newest first")
	assert.Equal(t, "lead-3", leads[1].ID)

	leads, _, err = repo.List(ctx, LeadFilter{TenantID: "demo", Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "lead-0", leads[0].ID)

	leads, total, err = repo.List(ctx, LeadFilter{TenantID: "demo", Kind: domain.LeadKindContact})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, leads, 2)

	for _, offset := range []int{5, 50, math.MaxInt, -1, math.MinInt} {
		leads, total, err = repo.List(ctx, LeadFilter{TenantID: "demo", Limit: 100, Offset: offset})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, leads, "offset %d", offset)
	}
}

func TestMemoryLeadRepository_UpdateStatus(t *testing.T) {
	repo := NewMemoryLeadRepository()
	ctx := context.Background()
	lead := newLead("lead-1", "demo", domain.LeadKindQuote, time.Now())
	require.NoError(t, repo.Create(ctx, lead))

	now := time.Now()
	lead.UpdatedAt = now
	tr := &domain.LeadTransition{ID: "t1", LeadID: "lead-1", From: domain.LeadStatusNew, To: domain.LeadStatusContacted, ChangedBy: "user-2", Timestamp: now}
	require.NoError(t, repo.UpdateStatus(ctx, lead, tr))

	got, _ := repo.GetByID(ctx, "demo", "lead-1")
	assert.Equal(t, domain.LeadStatusContacted, got.Status)

	stale := &domain.LeadTransition{ID: "t2", LeadID: "lead-1", From: domain.LeadStatusNew, To: domain.LeadStatusLost, Timestamp: now}
	assert.ErrorIs(t, repo.UpdateStatus(ctx, lead, stale), ErrStatusConflict)

	history, err := repo.GetTransitions(ctx, "lead-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.LeadStatusContacted, history[0].To)

	missing := newLead("nope", "demo", domain.LeadKindQuote, now)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, missing, tr), domain.ErrLeadNotFound)
}

func TestMemoryLeadRepository_ConcurrentTransitions(t *testing.T) {
	repo := NewMemoryLeadRepository()
	ctx := context.Background()
	lead := newLead("lead-1", "demo", domain.LeadKindQuote, time.Now())
	require.NoError(t, repo.Create(ctx, lead))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr := &domain.LeadTransition{ID: fmt.Sprintf("t%d", i), LeadID: "lead-1", From: domain.LeadStatusNew, To: domain.LeadStatusContacted}
			if err := repo.UpdateStatus(ctx, lead, tr); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	history, _ := repo.GetTransitions(ctx, "lead-1")
	assert.Len(t, history, 1)
}
