package tenant

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/pkg/config"
)

func TestNewRegistry_Validation(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.ErrorIs(t, err, ErrEmptyRegistry)

	_, err = NewRegistry([]domain.Tenant{{ID: "1", Subdomain: " "}})
	assert.ErrorIs(t, err, ErrEmptySubdomain)

	_, err = NewRegistry([]domain.Tenant{{ID: "1", Subdomain: "a"}, {ID: "2", Subdomain: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateSubdomain)

	_, err = NewRegistry([]domain.Tenant{{Subdomain: "a"}, {Subdomain: "Seguros-SP"}})
	assert.ErrorIs(t, err, ErrSubdomainCase)

	r, err := NewRegistry([]domain.Tenant{{Subdomain: "a"}, {Subdomain: "b"}})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "a", r.Default().ID)
}

func TestLoadEmbedded(t *testing.T) {
	r, err := LoadEmbedded()
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	def := r.Default()
	assert.Equal(t, "demo", def.Subdomain)
	assert.Equal(t, "Corretora Demo", def.Name)
	assert.Equal(t, "#0D214F", def.Theme.Primary)
	assert.Equal(t, "(11) 99999-9999", def.Settings.ContactInfo.Phone)
	assert.True(t, def.Settings.ChatbotEnabled)
	assert.True(t, def.Settings.SocialMedia.HasAny())
	assert.Len(t, def.Content.Services, 5)
	assert.Len(t, def.Content.Testimonials, 3)
	assert.Len(t, def.Content.FAQs, 3)
	assert.Contains(t, def.Content.FAQs[1].Answer, "Bradesco, Porto Seguro")

	for _, tn := range r.All() {
		for _, ts := range tn.Content.Testimonials {
			assert.True(t, ts.Rating >= 1 && ts.Rating <= 5, "%s rating %d", tn.Subdomain, ts.Rating)
		}
	}

	sp, err := r.Lookup(context.Background(), "seguros-sp")
	require.NoError(t, err)
	assert.Equal(t, "Seguros São Paulo", sp.Name)
	assert.False(t, sp.Settings.SocialMedia.HasAny())

	_, err = r.Lookup(context.Background(), "Demo")
	assert.ErrorIs(t, err, ErrTenantNotFound)

	byID, ok := r.ByID("3")
	require.True(t, ok)
	assert.Equal(t, "vida-segura", byID.Subdomain)
}

func TestRegistry_Organizations(t *testing.T) {
	r, err := LoadEmbedded()
	require.NoError(t, err)

	orgs := r.Organizations()
	require.Len(t, orgs, 2)
	assert.Equal(t, "Corretora Demo", orgs[0].Name)
	assert.Equal(t, "Seguros São Paulo", orgs[1].Name)
	for _, o := range orgs {
		assert.True(t, o.AllowRegistration)
	}
}

func TestRegistry_Search(t *testing.T) {
	r, err := LoadEmbedded()
	require.NoError(t, err)

	all, total := r.Search("", 1, 20)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)

	found, total := r.Search("SEGURA", 1, 20)
	assert.Equal(t, 1, total)
	assert.Equal(t, "vida-segura", found[0].Subdomain)

	page2, total := r.Search("", 2, 2)
	assert.Equal(t, 3, total)
	require.Len(t, page2, 1)
	assert.Equal(t, "vida-segura", page2[0].Subdomain)

	empty, total := r.Search("", 5, 2)
	assert.Equal(t, 3, total)
	assert.Empty(t, empty)

	huge, total := r.Search("", 92233720368547760, 100)
	assert.Equal(t, 3, total)
	assert.Empty(t, huge)

	huge, _ = r.Search("", math.MaxInt, math.MaxInt)
	assert.Empty(t, huge)

	none, total := r.Search("nothing-matches", 1, 20)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tenants.yaml")
	content := `
- id: acme
  subdomain: acme
  name: Acme Seguros
  theme: {primary: "#112233", secondary: "#445566"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := Load(context.Background(), config.TenancyConfig{RegistrySource: SourceFile, RegistryPath: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Acme Seguros", r.Default().Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrEmptyRegistry)
}

func TestLoad_Sources(t *testing.T) {
	r, err := Load(context.Background(), config.TenancyConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	_, err = Load(context.Background(), config.TenancyConfig{RegistrySource: SourcePostgres}, nil)
	assert.Error(t, err)

	_, err = Load(context.Background(), config.TenancyConfig{RegistrySource: "consul"}, nil)
	assert.Error(t, err)
}
