package usermock

import (
	"context"
	"errors"
	"time"

	domain "opticash-backend/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("usermock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, u *domain.User) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFn       func(ctx context.Context, email string) (*domain.User, error)
	SaveFn             func(ctx context.Context, u *domain.User) error
	ListFn             func(ctx context.Context, f domain.ListFilter) ([]domain.User, int64, error)
	StatsFn            func(ctx context.Context) (*domain.Stats, error)
	CreateCredentialFn func(ctx context.Context, c *domain.Credential) error
	GetCredentialFn    func(ctx context.Context, userID, provider string) (*domain.Credential, error)
	SaveCredentialFn   func(ctx context.Context, c *domain.Credential) error
	TouchLastLoginFn   func(ctx context.Context, credentialID string, at time.Time) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.User, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, errUnimplemented
}

func (m *Repo) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) CreateCredential(ctx context.Context, c *domain.Credential) error {
	if m.CreateCredentialFn != nil {
		return m.CreateCredentialFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetCredential(ctx context.Context, userID, provider string) (*domain.Credential, error) {
	if m.GetCredentialFn != nil {
		return m.GetCredentialFn(ctx, userID, provider)
	}
	return nil, errUnimplemented
}

func (m *Repo) SaveCredential(ctx context.Context, c *domain.Credential) error {
	if m.SaveCredentialFn != nil {
		return m.SaveCredentialFn(ctx, c)
	}
	return nil
}

func (m *Repo) TouchLastLogin(ctx context.Context, credentialID string, at time.Time) error {
	if m.TouchLastLoginFn != nil {
		return m.TouchLastLoginFn(ctx, credentialID, at)
	}
	return nil
}
