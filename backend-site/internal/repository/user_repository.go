package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Account is a user plus the credential the mock provider checks
type Account struct {
	User         *domain.User
	PasswordHash []byte
}

// UserRepository stores demo accounts for the mock auth provider
type UserRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
}

// MemoryUserRepository keeps accounts in process memory, keyed by lower-cased email
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*Account
	byID    map[string]*Account
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byEmail: make(map[string]*Account),
		byID:    make(map[string]*Account),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(account.User.Email)
	if _, exists := r.byEmail[email]; exists {
		return ErrEmailTaken
	}

	c := copyAccount(account)
	r.byEmail[email] = c
	r.byID[c.User.ID] = c
	return nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyAccount(a), nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyAccount(a), nil
}

func copyAccount(a *Account) *Account {
	u := *a.User
	hash := make([]byte, len(a.PasswordHash))
	copy(hash, a.PasswordHash)
	return &Account{User: &u, PasswordHash: hash}
}
