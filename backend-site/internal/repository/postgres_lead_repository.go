package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

// PostgresLeadRepository implements LeadRepository using PostgreSQL
type PostgresLeadRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLeadRepository creates a new PostgresLeadRepository
func NewPostgresLeadRepository(pool *pgxpool.Pool) *PostgresLeadRepository {
	return &PostgresLeadRepository{pool: pool}
}

const leadColumns = `
	id, tenant_id, kind, COALESCE(product, ''), COALESCE(interest, ''), name, email, phone,
	COALESCE(cpf, ''), COALESCE(message, ''), COALESCE(details, '{}'::jsonb), status, whatsapp_url,
	created_at, updated_at
`

// Create stores a new lead
func (r *PostgresLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	query := `
		INSERT INTO leads (
			id, tenant_id, kind, product, interest, name, email, phone,
			cpf, message, details, status, whatsapp_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	details := lead.Details
	if details == nil {
		details = map[string]string{}
	}

	_, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.TenantID,
		string(lead.Kind),
		nullStringOrValue(string(lead.Product)),
		nullStringOrValue(string(lead.Interest)),
		lead.Name,
		lead.Email,
		lead.Phone,
		nullStringOrValue(lead.CPF),
		nullStringOrValue(lead.Message),
		details,
		string(lead.Status),
		lead.WhatsAppURL,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID retrieves a lead of a tenant
func (r *PostgresLeadRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND tenant_id = $2`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// List returns a page of leads, newest first
func (r *PostgresLeadRepository) List(ctx context.Context, filter LeadFilter) ([]*domain.Lead, int, error) {
	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.TenantID != "" {
		whereClause += fmt.Sprintf(" AND tenant_id = $%d", argIndex)
		args = append(args, filter.TenantID)
		argIndex++
	}
	if filter.Status != "" {
		whereClause += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(filter.Status))
		argIndex++
	}
	if filter.Kind != "" {
		whereClause += fmt.Sprintf(" AND kind = $%d", argIndex)
		args = append(args, string(filter.Kind))
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`
		SELECT %s FROM leads
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]*domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// UpdateStatus applies the transition inside a transaction. The update is
// conditional on the current status so concurrent changes surface as ErrStatusConflict.
func (r *PostgresLeadRepository) UpdateStatus(ctx context.Context, lead *domain.Lead, transition *domain.LeadTransition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx, `
		UPDATE leads SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`, lead.ID, string(transition.From), string(transition.To), lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leads WHERE id = $1)`, lead.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check lead: %w", err)
		}
		if !exists {
			return domain.ErrLeadNotFound
		}
		return ErrStatusConflict
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_transitions (id, lead_id, from_status, to_status, changed_by, note, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		transition.ID,
		transition.LeadID,
		string(transition.From),
		string(transition.To),
		nullStringOrValue(transition.ChangedBy),
		nullStringOrValue(transition.Note),
		transition.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert lead transition: %w", err)
	}

	return tx.Commit(ctx)
}

// GetTransitions returns the status history of a lead
func (r *PostgresLeadRepository) GetTransitions(ctx context.Context, leadID string) ([]*domain.LeadTransition, error) {
	query := `
		SELECT id, lead_id, from_status, to_status, COALESCE(changed_by, ''), COALESCE(note, ''), timestamp
		FROM lead_transitions
		WHERE lead_id = $1
		ORDER BY timestamp ASC
	`
	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("get transitions: %w", err)
	}
	defer rows.Close()

	transitions := make([]*domain.LeadTransition, 0)
	for rows.Next() {
		var (
			t        domain.LeadTransition
			from, to string
		)
		if err := rows.Scan(&t.ID, &t.LeadID, &from, &to, &t.ChangedBy, &t.Note, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		t.From = domain.LeadStatus(from)
		t.To = domain.LeadStatus(to)
		transitions = append(transitions, &t)
	}
	return transitions, rows.Err()
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var (
		l                               domain.Lead
		kind, product, interest, status string
	)
	err := row.Scan(
		&l.ID,
		&l.TenantID,
		&kind,
		&product,
		&interest,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.CPF,
		&l.Message,
		&l.Details,
		&status,
		&l.WhatsAppURL,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Kind = domain.LeadKind(kind)
	l.Product = domain.Product(product)
	l.Interest = domain.Interest(interest)
	l.Status = domain.LeadStatus(status)
	return &l, nil
}

func nullStringOrValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
