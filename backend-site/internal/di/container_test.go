package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/chatbot"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/pkg/config"
	"github.com/OttoDev-System/intellicor-saas/pkg/kafka"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewContainer_InMemory(t *testing.T) {
	cfg := testConfig(t)

	c, err := NewContainer(context.Background(), cfg, logger.Nop(), Options{Delay: chatbot.NoDelay})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Redis)
	assert.IsType(t, &kafka.LogProducer{}, c.Producer)
	assert.IsType(t, &repository.MemoryLeadRepository{}, c.LeadRepo)
	assert.IsType(t, &repository.MemoryTokenRevocationStore{}, c.Revocation)
	assert.NotNil(t, c.UserRepo)
	assert.NotNil(t, c.Audit)
	assert.NotNil(t, c.Templates)
	assert.Equal(t, 3, c.Registry.Len())

	for _, h := range []any{c.Handlers.Health, c.Handlers.Tenant, c.Handlers.Lead, c.Handlers.Chat, c.Handlers.Auth, c.Handlers.Dashboard, c.Handlers.Page} {
		assert.NotNil(t, h)
	}

	res, err := c.AuthService.Login(context.Background(), loginRequest("admin@demo.com", cfg.Auth.DemoPassword))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	r, stop := c.Router()
	defer stop()
	assert.NotEmpty(t, r.Routes())
}

func TestNewContainer_Options(t *testing.T) {
	registry, err := tenant.NewRegistry([]domain.Tenant{{ID: "7", Subdomain: "unica", Name: "Única"}})
	require.NoError(t, err)
	producer := kafka.NewMemoryProducer()

	c, err := NewContainer(context.Background(), testConfig(t), logger.Nop(), Options{
		Registry: registry,
		Producer: producer,
		Delay:    chatbot.NoDelay,
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, registry, c.Registry)
	assert.Same(t, producer, c.Producer)
	assert.Equal(t, "unica", c.Registry.Default().Subdomain)
}

func TestNewContainer_UnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Provider = "ldap"

	_, err := NewContainer(context.Background(), cfg, logger.Nop(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ldap")
}

func loginRequest(email, password string) *dto.LoginRequest {
	return &dto.LoginRequest{Email: email, Password: password}
}
