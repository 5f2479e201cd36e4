package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/client"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
)

// Provider names accepted by AUTH_PROVIDER
const (
	ProviderMock     = "mock"
	ProviderSupabase = "supabase"
)

// MockOrganizationID is the organization every demo user belongs to
const MockOrganizationID = "org-1"

// NewUser is a registration accepted by the auth service
type NewUser struct {
	FullName     string
	Email        string
	Password     string
	Organization *domain.Organization
}

// IdentityProvider verifies credentials and creates accounts
type IdentityProvider interface {
	Name() string
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, u NewUser) (*domain.User, error)
	RecoverPassword(ctx context.Context, email string) error
}

// MockOrganization is the organization of the demo users
func MockOrganization() *domain.Organization {
	return &domain.Organization{
		ID:        MockOrganizationID,
		Name:      "Corretora Demo INTELLICOR",
		Subdomain: "demo",
		Theme: domain.OrganizationTheme{
			Primary:   "#0D214F",
			Secondary: "#5A7A9E",
		},
		Features: []string{"dashboard", "clients", "quotes", "reports"},
	}
}

// DemoUsers returns one user per role in MockOrganizationID
func DemoUsers() map[domain.Role]*domain.User {
	return map[domain.Role]*domain.User{
		domain.RoleAdmin: {
			ID: "user-admin", Email: "admin@demo.com", FullName: "Maria Silva Santos",
			Role: domain.RoleAdmin, OrganizationID: MockOrganizationID,
		},
		domain.RoleCorretor: {
			ID: "user-corretor", Email: "corretor@demo.com", FullName: "João Carlos Oliveira",
			Role: domain.RoleCorretor, OrganizationID: MockOrganizationID,
		},
		domain.RoleSuporte: {
			ID: "user-suporte", Email: "suporte@demo.com", FullName: "Ana Paula Costa",
			Role: domain.RoleSuporte, OrganizationID: MockOrganizationID,
		},
	}
}

// RoleFromEmail picks the demo role an email logs in as
func RoleFromEmail(email string) domain.Role {
	switch {
	case strings.Contains(email, "admin"):
		return domain.RoleAdmin
	case strings.Contains(email, "corretor"):
		return domain.RoleCorretor
	default:
		return domain.RoleSuporte
	}
}

// MockProvider authenticates the demo users. Unknown emails log in as the
// demo user of the role derived from the email, with the demo password.
type MockProvider struct {
	users    repository.UserRepository
	demo     map[domain.Role]*domain.User
	demoHash []byte
	now      func() time.Time
}

// NewMockProvider seeds users with the demo accounts hashed with demoPassword
func NewMockProvider(ctx context.Context, users repository.UserRepository, demoPassword string) (*MockProvider, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	p := &MockProvider{
		users:    users,
		demo:     DemoUsers(),
		demoHash: hash,
		now:      time.Now,
	}
	for _, role := range domain.Roles {
		u := *p.demo[role]
		u.CreatedAt = p.now()
		err := users.Create(ctx, &repository.Account{User: &u, PasswordHash: hash})
		if err != nil && !errors.Is(err, repository.ErrEmailTaken) {
			return nil, fmt.Errorf("seed demo user %s: %w", u.Email, err)
		}
	}
	return p, nil
}

func (p *MockProvider) Name() string { return ProviderMock }

func (p *MockProvider) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	account, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		u := *p.demo[RoleFromEmail(email)]
		u.CreatedAt = p.now()
		account = &repository.Account{User: &u, PasswordHash: p.demoHash}
	}

	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return account.User, nil
}

func (p *MockProvider) Register(ctx context.Context, nu NewUser) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:             uuid.New().String(),
		Email:          nu.Email,
		FullName:       nu.FullName,
		Role:           domain.RoleSuporte,
		OrganizationID: nu.Organization.ID,
		CreatedAt:      p.now(),
	}
	if err := p.users.Create(ctx, &repository.Account{User: user, PasswordHash: hash}); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// RecoverPassword has no mailbox to write to in demo mode
func (p *MockProvider) RecoverPassword(ctx context.Context, email string) error {
	return nil
}

// SupabaseProvider delegates to Supabase auth. Role and organization live in user_metadata.
type SupabaseProvider struct {
	client        client.AuthClient
	recoverTarget string
}

func NewSupabaseProvider(c client.AuthClient, recoverTarget string) *SupabaseProvider {
	return &SupabaseProvider{client: c, recoverTarget: recoverTarget}
}

func (p *SupabaseProvider) Name() string { return ProviderSupabase }

func (p *SupabaseProvider) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	session, err := p.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrInvalidGrant) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("supabase sign in: %w", err)
	}
	return userFromAuth(session.User), nil
}

func (p *SupabaseProvider) Register(ctx context.Context, nu NewUser) (*domain.User, error) {
	au, err := p.client.SignUp(ctx, nu.Email, nu.Password, client.UserMetadata{
		FullName:       nu.FullName,
		Role:           string(domain.RoleSuporte),
		OrganizationID: nu.Organization.ID,
	})
	if err != nil {
		if errors.Is(err, client.ErrUserExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("supabase sign up: %w", err)
	}
	return userFromAuth(au), nil
}

func (p *SupabaseProvider) RecoverPassword(ctx context.Context, email string) error {
	return p.client.Recover(ctx, email, p.recoverTarget)
}

func userFromAuth(au *client.AuthUser) *domain.User {
	role := domain.Role(au.UserMetadata.Role)
	if !role.IsValid() {
		role = domain.RoleSuporte
	}
	name := au.UserMetadata.FullName
	if name == "" {
		name = au.Email
	}
	return &domain.User{
		ID:             au.ID,
		Email:          au.Email,
		FullName:       name,
		Role:           role,
		OrganizationID: au.UserMetadata.OrganizationID,
		Avatar:         au.UserMetadata.Avatar,
		CreatedAt:      au.CreatedAt,
	}
}
