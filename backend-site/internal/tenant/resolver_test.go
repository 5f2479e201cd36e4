package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
)

var testResolverConfig = ResolverConfig{
	RootDomain:       "intellicor.com.br",
	DevHosts:         []string{"localhost", "127.0.0.1"},
	DefaultSubdomain: "demo",
}

func newTestResolver(t *testing.T) (*Resolver, *observer.ObservedLogs) {
	t.Helper()
	reg, err := LoadEmbedded()
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	return NewResolver(reg, testResolverConfig, logger.NewWithCore(core, "test"), nil), logs
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name string
		rc   RequestContext
		want string
	}{
		{name: "subdomain of root", rc: RequestContext{Host: "demo.intellicor.com.br"}, want: "demo"},
		{name: "other subdomain", rc: RequestContext{Host: "vida-segura.intellicor.com.br"}, want: "vida-segura"},
		{name: "port and case are normalized", rc: RequestContext{Host: "Seguros-SP.Intellicor.com.br:443"}, want: "seguros-sp"},
		{name: "leftmost label of nested host", rc: RequestContext{Host: "seguros-sp.app.intellicor.com.br"}, want: "seguros-sp"},
		{name: "unregistered subdomain falls back", rc: RequestContext{Host: "nope.intellicor.com.br"}, want: "demo"},
		{name: "root domain itself", rc: RequestContext{Host: "intellicor.com.br"}, want: "demo"},
		{name: "dev host with query", rc: RequestContext{Host: "localhost:8080", Query: "vida-segura"}, want: "vida-segura"},
		{name: "dev host without query", rc: RequestContext{Host: "127.0.0.1:3000"}, want: "demo"},
		{name: "dev host header override", rc: RequestContext{Host: "localhost", Query: "vida-segura", Header: "seguros-sp"}, want: "seguros-sp"},
		{name: "query is case sensitive", rc: RequestContext{Host: "localhost", Query: "Vida-Segura"}, want: "demo"},
		{name: "query ignored on foreign host", rc: RequestContext{Host: "example.org", Query: "vida-segura"}, want: "demo"},
		{name: "header ignored on foreign host", rc: RequestContext{Host: "example.org", Header: "seguros-sp"}, want: "demo"},
		{name: "empty host", rc: RequestContext{}, want: "demo"},
	}

	r, _ := newTestResolver(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(context.Background(), tt.rc)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Subdomain)
		})
	}
}

func TestResolver_IsDeterministic(t *testing.T) {
	r, _ := newTestResolver(t)
	rc := RequestContext{Host: "seguros-sp.intellicor.com.br"}

	first := r.Resolve(context.Background(), rc)
	for i := 0; i < 10; i++ {
		assert.Same(t, first, r.Resolve(context.Background(), rc))
	}
}

func TestResolver_MissLogsWarning(t *testing.T) {
	r, logs := newTestResolver(t)

	got := r.Resolve(context.Background(), RequestContext{Host: "unknown.intellicor.com.br"})
	assert.Equal(t, "demo", got.Subdomain)

	entries := logs.FilterMessage("tenant not found, using default").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "unknown", entries[0].ContextMap()["subdomain"])
}

type failingLookup struct {
	fallback *domain.Tenant
}

func (f failingLookup) Lookup(context.Context, string) (*domain.Tenant, error) {
	return nil, errors.New("registry unavailable")
}

func (f failingLookup) Default() *domain.Tenant { return f.fallback }

func TestResolver_LookupErrorFallsBack(t *testing.T) {
	fallback := &domain.Tenant{ID: "1", Subdomain: "demo"}
	core, logs := observer.New(zap.DebugLevel)
	r := NewResolver(failingLookup{fallback: fallback}, testResolverConfig, logger.NewWithCore(core, "test"), nil)

	got := r.Resolve(context.Background(), RequestContext{Host: "seguros-sp.intellicor.com.br"})
	assert.Same(t, fallback, got)

	entries := logs.FilterLevelExact(zap.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "tenant lookup failed, using default", entries[0].Message)
}

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, "demo.intellicor.com.br", NormalizeHost(" Demo.Intellicor.com.br:8443 "))
	assert.Equal(t, "localhost", NormalizeHost("localhost"))
	assert.Equal(t, "example.com", NormalizeHost("example.com."))
	assert.Equal(t, "::1", NormalizeHost("[::1]:8080"))
}
