package mysql

import (
	"context"
	"strings"
	"time"

	userDomain "opticash-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return mapDuplicate(r.db.WithContext(ctx).Create(u).Error, userDomain.ErrEmailTaken)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, mapNotFound(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var out userDomain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) List(ctx context.Context, f userDomain.ListFilter) ([]userDomain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userDomain.User{})
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", p, p)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []userDomain.User
	err := paginate(q.Order("created_at DESC, id DESC"), f.Offset, f.Limit).Find(&out).Error
	return out, total, err
}

func (r *UserRepository) Stats(ctx context.Context) (*userDomain.Stats, error) {
	var rows []struct {
		Status userDomain.Status
		Role   userDomain.Role
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&userDomain.User{}).
		Select("status, role, COUNT(*) AS n").
		Group("status, role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := &userDomain.Stats{}
	for _, row := range rows {
		out.Total += row.N
		switch row.Status {
		case userDomain.StatusActive:
			out.Active += row.N
		case userDomain.StatusInactive:
			out.Inactive += row.N
		}
		if row.Role == userDomain.RoleAdmin {
			out.Admins += row.N
		}
	}
	return out, nil
}

func (r *UserRepository) CreateCredential(ctx context.Context, c *userDomain.Credential) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *UserRepository) GetCredential(ctx context.Context, userID, provider string) (*userDomain.Credential, error) {
	var out userDomain.Credential
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) SaveCredential(ctx context.Context, c *userDomain.Credential) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, credentialID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&userDomain.Credential{}).
		Where("id = ?", credentialID).
		Update("last_login_at", at).Error
}
