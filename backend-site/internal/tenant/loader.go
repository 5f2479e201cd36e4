package tenant

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/pkg/config"
)

// Registry sources
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

//go:embed seed/tenants.yaml
var seedYAML []byte

// Querier is the subset of a pgx pool used to read organizations
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ParseYAML decodes a list of tenants
func ParseYAML(data []byte) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if err := yaml.Unmarshal(data, &tenants); err != nil {
		return nil, fmt.Errorf("decode tenants: %w", err)
	}
	return tenants, nil
}

// LoadEmbedded builds the registry from the compiled-in demo brokerages
func LoadEmbedded() (*Registry, error) {
	tenants, err := ParseYAML(seedYAML)
	if err != nil {
		return nil, err
	}
	return NewRegistry(tenants)
}

// LoadFile builds the registry from a YAML file
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tenant registry %s: %w", path, err)
	}
	tenants, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewRegistry(tenants)
}

const organizationsQuery = `
	SELECT id, subdomain, name, COALESCE(description, ''), COALESCE(logo, ''),
	       theme, settings, content
	FROM organizations
	ORDER BY created_at, id
`

// LoadPostgres builds the registry from the organizations table
func LoadPostgres(ctx context.Context, q Querier) (*Registry, error) {
	rows, err := q.Query(ctx, organizationsQuery)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var (
			t                        domain.Tenant
			theme, settings, content []byte
		)
		if err := rows.Scan(&t.ID, &t.Subdomain, &t.Name, &t.Description, &t.Logo, &theme, &settings, &content); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		if err := decodeJSONColumn(theme, &t.Theme); err != nil {
			return nil, fmt.Errorf("organization %s theme: %w", t.Subdomain, err)
		}
		if err := decodeJSONColumn(settings, &t.Settings); err != nil {
			return nil, fmt.Errorf("organization %s settings: %w", t.Subdomain, err)
		}
		if err := decodeJSONColumn(content, &t.Content); err != nil {
			return nil, fmt.Errorf("organization %s content: %w", t.Subdomain, err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}

	return NewRegistry(tenants)
}

func decodeJSONColumn(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// Load builds the registry from the configured source
func Load(ctx context.Context, cfg config.TenancyConfig, q Querier) (*Registry, error) {
	switch cfg.RegistrySource {
	case "", SourceEmbedded:
		return LoadEmbedded()
	case SourceFile:
		return LoadFile(cfg.RegistryPath)
	case SourcePostgres:
		if q == nil {
			return nil, fmt.Errorf("registry source %q requires a database", SourcePostgres)
		}
		return LoadPostgres(ctx, q)
	default:
		return nil, fmt.Errorf("unknown registry source %q", cfg.RegistrySource)
	}
}
