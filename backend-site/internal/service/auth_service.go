package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/navigation"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/permission"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailTaken           = errors.New("email already registered")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrRegistrationClosed   = errors.New("organization does not accept registrations")
	ErrRoleSwitchDisabled   = errors.New("role switching is disabled")
)

// AuthConfig holds token settings for the auth service
type AuthConfig struct {
	Secret            string
	Issuer            string
	AccessTokenTTL    time.Duration
	RoleSwitchEnabled bool
}

// AuthService handles login, registration and the current session
type AuthService interface {
	// Login verifies credentials and issues an access token
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Register creates an account in an organization open for registration
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MessageResponse, error)
	// ForgotPassword requests a reset email. It reports success for unknown emails.
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.MessageResponse, error)
	// Logout revokes the session token until it expires
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	// Me describes the current session
	Me(ctx context.Context, user *domain.User) *dto.MeResponse
	// SwitchRole reissues the session as the demo user of another role
	SwitchRole(ctx context.Context, user *domain.User, req *dto.SwitchRoleRequest) (*dto.AuthResponse, error)
	// Organizations lists organizations open for registration
	Organizations(ctx context.Context) []*domain.Organization
	// Organization returns the organization a user belongs to, nil when unknown
	Organization(id string) *domain.Organization
	// RoleSwitchEnabled reports whether SwitchRole is available
	RoleSwitchEnabled() bool
}

type authService struct {
	provider   IdentityProvider
	registry   *tenant.Registry
	revocation repository.TokenRevocationStore
	cfg        AuthConfig
	metrics    *telemetry.SiteMetrics
	log        *logger.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	provider IdentityProvider,
	registry *tenant.Registry,
	revocation repository.TokenRevocationStore,
	cfg AuthConfig,
	metrics *telemetry.SiteMetrics,
	log *logger.Logger,
) AuthService {
	if metrics == nil {
		metrics = telemetry.NopSiteMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 8 * time.Hour
	}
	return &authService{
		provider:   provider,
		registry:   registry,
		revocation: revocation,
		cfg:        cfg,
		metrics:    metrics,
		log:        log.Named("auth"),
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	user, err := s.provider.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		result := "error"
		if errors.Is(err, ErrInvalidCredentials) {
			result = "rejected"
		}
		s.metrics.Logins.Inc(ctx, telemetry.AuthAttrs(s.provider.Name(), result)...)
		if result == "error" {
			telemetry.SetSpanError(ctx, err)
		}
		return nil, err
	}

	s.metrics.Logins.Inc(ctx, telemetry.AuthAttrs(s.provider.Name(), "ok")...)
	s.log.InfoContext(ctx, "user logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return s.issue(user)
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MessageResponse, error) {
	org := s.Organization(req.OrganizationID)
	if org == nil {
		return nil, ErrOrganizationNotFound
	}
	if !org.AllowRegistration {
		return nil, ErrRegistrationClosed
	}

	user, err := s.provider.Register(ctx, NewUser{
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     req.Password,
		Organization: org,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered",
		zap.String("user_id", user.ID),
		zap.String("organization_id", org.ID),
	)
	return &dto.MessageResponse{Message: dto.MsgRegisterSucceeded}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.MessageResponse, error) {
	if err := s.provider.RecoverPassword(ctx, req.Email); err != nil {
		s.log.WarnContext(ctx, "password recovery failed", zap.Error(err))
	}
	return &dto.MessageResponse{Title: "Email enviado!", Message: dto.MsgResetEmailSent}, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	if err := s.revocation.Revoke(ctx, tokenID, expiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, user *domain.User) *dto.MeResponse {
	return &dto.MeResponse{
		User:         user,
		Organization: s.Organization(user.OrganizationID),
		Capabilities: permission.Capabilities(user.Role),
		Navigation:   navigation.For(user.Role),
		RoleSwitch:   s.cfg.RoleSwitchEnabled,
	}
}

func (s *authService) SwitchRole(ctx context.Context, user *domain.User, req *dto.SwitchRoleRequest) (*dto.AuthResponse, error) {
	if !s.cfg.RoleSwitchEnabled {
		return nil, ErrRoleSwitchDisabled
	}

	target := domain.Role(req.Role)
	switched := *DemoUsers()[target]
	switched.CreatedAt = s.now()

	s.log.WarnContext(ctx, "role switched",
		zap.String("from_user_id", user.ID),
		zap.String("role", string(target)),
	)
	return s.issue(&switched)
}

func (s *authService) Organizations(ctx context.Context) []*domain.Organization {
	return s.registry.Organizations()
}

func (s *authService) Organization(id string) *domain.Organization {
	if id == MockOrganizationID {
		return MockOrganization()
	}
	if t, ok := s.registry.ByID(id); ok {
		return t.Organization()
	}
	return nil
}

func (s *authService) RoleSwitchEnabled() bool {
	return s.cfg.RoleSwitchEnabled
}

func (s *authService) issue(user *domain.User) (*dto.AuthResponse, error) {
	now := s.now()
	claims := middleware.Claims{
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.FullName,
		Role:           string(user.Role),
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  token,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
		User:         user,
		Organization: s.Organization(user.OrganizationID),
		RedirectTo:   user.Role.HomePath(),
	}, nil
}

// UserFromClaims rebuilds the session user from token claims
func UserFromClaims(claims *middleware.Claims) *domain.User {
	return &domain.User{
		ID:             claims.UserID,
		Email:          claims.Email,
		FullName:       claims.Name,
		Role:           domain.Role(claims.Role),
		OrganizationID: claims.OrganizationID,
	}
}
