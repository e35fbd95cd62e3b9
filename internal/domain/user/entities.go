package user

import (
	"errors"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const ProviderLocal = "local"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("user is inactive")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid status")
)

// User is unique by email across every status; an inactive account still holds its address.
type User struct {
	ID        string    `gorm:"column:id;type:char(32);primaryKey"`
	Name      string    `gorm:"column:name;size:120;not null"`
	Email     string    `gorm:"column:email;size:190;not null;uniqueIndex:ux_users_email"`
	Status    Status    `gorm:"column:status;size:16;not null;default:active;index"`
	Role      Role      `gorm:"column:role;size:16;not null;default:user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) IsActive() bool { return u.Status == StatusActive }

type Credential struct {
	ID           string     `gorm:"column:id;type:char(32);primaryKey"`
	UserID       string     `gorm:"column:user_id;type:char(32);not null;uniqueIndex:ux_credentials_user_provider"`
	Provider     string     `gorm:"column:provider;size:32;not null;uniqueIndex:ux_credentials_user_provider"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Credential) TableName() string { return "credentials" }

// Identity is the authenticated caller, passed explicitly into every usecase that checks ownership or role.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// CanAccess reports whether the caller may read or mutate a resource owned by ownerID.
func (i Identity) CanAccess(ownerID string) bool { return i.IsAdmin() || i.UserID == ownerID }

func ValidRole(r Role) bool { return r == RoleUser || r == RoleAdmin }

func ValidStatus(s Status) bool { return s == StatusActive || s == StatusInactive }
