package di

import (
	"context"
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/chatbot"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/client"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/event"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/handler"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/router"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/service"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/web"
	"github.com/OttoDev-System/intellicor-saas/pkg/config"
	"github.com/OttoDev-System/intellicor-saas/pkg/database"
	"github.com/OttoDev-System/intellicor-saas/pkg/kafka"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/redis"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

// Container holds all dependencies for the site
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	// Infrastructure, nil when disabled
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer kafka.Producer
	Audit    *middleware.AuditLogger

	Registry *tenant.Registry
	Resolver *tenant.Resolver
	Metrics  *telemetry.SiteMetrics

	// Repositories
	LeadRepo   repository.LeadRepository
	UserRepo   repository.UserRepository
	Revocation repository.TokenRevocationStore

	// Services
	TenantService    service.TenantService
	LeadService      service.LeadService
	ChatService      service.ChatService
	AuthService      service.AuthService
	DashboardService service.DashboardService

	Handlers  router.Handlers
	Templates *template.Template
}

// Options overrides pieces of the container. Tests use it to avoid live infrastructure.
type Options struct {
	Registry *tenant.Registry
	Producer kafka.Producer
	Delay    chatbot.DelayFunc
}

// NewContainer connects the configured infrastructure and builds services and handlers
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	metrics, err := telemetry.NewSiteMetrics(telemetry.GetMeter())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	c.Metrics = metrics

	if err := c.connect(ctx, opts); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.buildServices(ctx, opts); err != nil {
		c.Close()
		return nil, err
	}

	if c.Templates, err = web.Templates(); err != nil {
		c.Close()
		return nil, fmt.Errorf("templates: %w", err)
	}

	c.buildHandlers()
	return c, nil
}

func (c *Container) connect(ctx context.Context, opts Options) error {
	cfg := c.Config

	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, database.FromAppConfig(cfg.Database))
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		c.DB = db
		if err := repository.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.Log.Info("connected to database", zap.String("host", cfg.Database.Host))
	}

	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		c.Redis = rc
		c.Log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr()))
	}

	switch {
	case opts.Producer != nil:
		c.Producer = opts.Producer
	case cfg.Kafka.Enabled:
		p, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		c.Producer = p
	default:
		c.Producer = kafka.NewLogProducer(c.Log)
	}

	if c.DB != nil {
		c.Audit = middleware.NewAuditLogger(middleware.DefaultAuditConfig(middleware.NewPostgresAuditStore(c.DB.Pool())))
	} else {
		c.Audit = middleware.NewAuditLogger(middleware.DefaultAuditConfig(middleware.LogAuditStore{}))
	}
	return nil
}

func (c *Container) buildServices(ctx context.Context, opts Options) error {
	cfg := c.Config

	c.Registry = opts.Registry
	if c.Registry == nil {
		var q tenant.Querier
		if c.DB != nil {
			q = c.DB
		}
		reg, err := tenant.Load(ctx, cfg.Tenancy, q)
		if err != nil {
			return fmt.Errorf("tenant registry: %w", err)
		}
		c.Registry = reg
	}
	c.Resolver = tenant.NewResolver(c.Registry, tenant.ResolverConfigFrom(cfg.Tenancy), c.Log, c.Metrics)

	if c.DB != nil {
		c.LeadRepo = repository.NewPostgresLeadRepository(c.DB.Pool())
	} else {
		c.LeadRepo = repository.NewMemoryLeadRepository()
	}
	if c.Redis != nil {
		c.Revocation = repository.NewRedisTokenRevocationStore(c.Redis.Client)
	} else {
		c.Revocation = repository.NewMemoryTokenRevocationStore()
	}

	provider, err := c.identityProvider(ctx)
	if err != nil {
		return err
	}

	responderOpts := []chatbot.Option{chatbot.WithLogger(c.Log), chatbot.WithMetrics(c.Metrics)}
	if opts.Delay != nil {
		responderOpts = append(responderOpts, chatbot.WithDelay(opts.Delay))
	}

	topic := cfg.Kafka.LeadsTopic
	if topic == "" {
		topic = event.DefaultLeadsTopic
	}

	c.TenantService = service.NewTenantService(c.Registry)
	c.LeadService = service.NewLeadService(c.LeadRepo, event.NewKafkaLeadPublisher(c.Producer, topic), c.Metrics, c.Log)
	c.ChatService = service.NewChatService(chatbot.FromConfig(cfg.Chatbot, responderOpts...))
	c.AuthService = service.NewAuthService(provider, c.Registry, c.Revocation, service.AuthConfig{
		Secret:            cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		AccessTokenTTL:    cfg.JWT.AccessTokenTTL,
		RoleSwitchEnabled: cfg.Auth.RoleSwitchEnabled,
	}, c.Metrics, c.Log)
	c.DashboardService = service.NewDashboardService(c.LeadRepo, c.AuthService, c.Log)
	return nil
}

func (c *Container) identityProvider(ctx context.Context) (service.IdentityProvider, error) {
	cfg := c.Config
	switch cfg.Auth.Provider {
	case service.ProviderSupabase:
		ac := client.NewHTTPAuthClient(cfg.Auth.SupabaseURL, cfg.Auth.SupabaseAnonKey)
		return service.NewSupabaseProvider(ac, "https://"+cfg.Tenancy.RootDomain+"/login"), nil
	case "", service.ProviderMock:
		c.UserRepo = repository.NewMemoryUserRepository()
		p, err := service.NewMockProvider(ctx, c.UserRepo, cfg.Auth.DemoPassword)
		if err != nil {
			return nil, fmt.Errorf("mock auth: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}

func (c *Container) buildHandlers() {
	cfg := c.Config
	cookie := handler.SessionCookie{Name: cfg.JWT.CookieName, Secure: cfg.IsProduction()}

	checks := map[string]handler.HealthChecker{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}

	c.Handlers = router.Handlers{
		Health:    handler.NewHealthHandler(cfg.App.Name, c.Registry.Len(), checks),
		Tenant:    handler.NewTenantHandler(c.TenantService),
		Lead:      handler.NewLeadHandler(c.LeadService),
		Chat:      handler.NewChatHandler(c.ChatService),
		Auth:      handler.NewAuthHandler(c.AuthService, cookie),
		Dashboard: handler.NewDashboardHandler(c.DashboardService),
		Page: handler.NewPageHandler(c.LeadService, c.AuthService, c.DashboardService, cookie,
			cfg.Auth.Provider != service.ProviderSupabase),
	}
}

// Router builds the HTTP engine. The returned stop func releases the rate limiter.
func (c *Container) Router() (*gin.Engine, func()) {
	cfg := c.Config

	rl := middleware.DefaultRateLimitConfig()
	if cfg.RateLimit.RequestsPerSecond > 0 {
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
	}
	if cfg.RateLimit.BurstSize > 0 {
		rl.BurstSize = cfg.RateLimit.BurstSize
	}
	if cfg.RateLimit.UseRedis && c.Redis != nil {
		rl.RedisClient = c.Redis.Client
	}

	return router.New(router.Config{
		ServiceName:   cfg.App.Name,
		Logger:        c.Log,
		AllowOrigins:  cfg.Server.AllowOrigins,
		Resolver:      c.Resolver,
		Organizations: c.AuthService,
		Metrics:       c.Metrics,
		Templates:     c.Templates,
		JWTSecret:     cfg.JWT.Secret,
		CookieName:    cfg.JWT.CookieName,
		Revocation:    c.Revocation,
		RoleSwitch:    cfg.Auth.RoleSwitchEnabled,
		RateLimit:     rl,
		Audit:         c.Audit,
	}, c.Handlers)
}

// Close flushes the audit log and releases connections
func (c *Container) Close() {
	if c.Audit != nil {
		if err := c.Audit.Close(); err != nil {
			c.Log.Warn("audit flush failed", zap.Error(err))
		}
	}
	if c.Producer != nil {
		c.Producer.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warn("redis close failed", zap.Error(err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
