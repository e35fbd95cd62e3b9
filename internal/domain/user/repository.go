package user

import (
	"context"
	"time"
)

type ListFilter struct {
	Search string
	Role   Role
	Status Status
	Offset int
	Limit  int
}

type Stats struct {
	Total    int64
	Active   int64
	Inactive int64
	Admins   int64
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByEmail ignores status.
	GetByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
	List(ctx context.Context, f ListFilter) ([]User, int64, error)
	Stats(ctx context.Context) (*Stats, error)

	CreateCredential(ctx context.Context, c *Credential) error
	GetCredential(ctx context.Context, userID, provider string) (*Credential, error)
	SaveCredential(ctx context.Context, c *Credential) error
	TouchLastLogin(ctx context.Context, credentialID string, at time.Time) error
}
