package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domain "opticash-backend/internal/domain/user"
	"opticash-backend/internal/domain/uow"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/id"
	"opticash-backend/pkg/logger"
	"opticash-backend/pkg/token"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer is satisfied by *token.Manager.
type TokenIssuer interface {
	Issue(userID, email, role string) (*token.Pair, error)
	ParseRefresh(raw string) (*token.Claims, error)
}

type Usecase struct {
	users  domain.Repository
	uow    uow.UnitOfWork
	tokens TokenIssuer
	cost   int
	now    func() time.Time

	compare   func(hash, password []byte) error
	decoyOnce sync.Once
	decoy     []byte
}

func NewUsecase(users domain.Repository, tx uow.UnitOfWork, tokens TokenIssuer, bcryptCost int) *Usecase {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Usecase{
		users:   users,
		uow:     tx,
		tokens:  tokens,
		cost:    bcryptCost,
		now:     time.Now,
		compare: bcrypt.CompareHashAndPassword,
	}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Register creates a regular user with a local credential.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	return u.create(ctx, in, domain.RoleUser)
}

// CreateAdmin is the only way to obtain an admin account; it is not exposed over HTTP.
func (u *Usecase) CreateAdmin(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	return u.create(ctx, in, domain.RoleAdmin)
}

func (u *Usecase) create(ctx context.Context, in RegisterInput, role domain.Role) (*UserDTO, error) {
	email := normalizeEmail(in.Email)

	// no status filter: an inactive account keeps its address
	switch _, err := u.users.GetByEmail(ctx, email); {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	usr := &domain.User{
		ID:     id.NewID32(),
		Name:   strings.TrimSpace(in.Name),
		Email:  email,
		Status: domain.StatusActive,
		Role:   role,
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Users.Create(ctx, usr); err != nil {
			return err
		}
		return r.Users.CreateCredential(ctx, &domain.Credential{
			ID:           id.NewID32(),
			UserID:       usr.ID,
			Provider:     domain.ProviderLocal,
			PasswordHash: string(hash),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info().Str("user_id", usr.ID).Str("role", string(role)).Msg("user registered")
	dto := toDTO(usr)
	return &dto, nil
}

// Login answers ErrInvalidCredentials for every failed check. Each failure costs one
// bcrypt comparison so response time does not reveal which check failed.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	usr, err := u.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, u.rejectLogin(in.Password)
		}
		return nil, err
	}
	if !usr.IsActive() {
		return nil, u.rejectLogin(in.Password)
	}
	cred, err := u.users.GetCredential(ctx, usr.ID, domain.ProviderLocal)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, u.rejectLogin(in.Password)
		}
		return nil, err
	}
	if err := u.compare([]byte(cred.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := u.tokens.Issue(usr.ID, usr.Email, string(usr.Role))
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	if err := u.users.TouchLastLogin(ctx, cred.ID, u.now().UTC()); err != nil {
		logger.Get().Warn().Err(err).Str("user_id", usr.ID).Msg("update last login")
	}
	return &AuthResult{User: toDTO(usr), Tokens: pair}, nil
}

// rejectLogin burns one comparison against a hash of the configured cost.
func (u *Usecase) rejectLogin(password string) error {
	u.decoyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(id.NewID32()), u.cost)
		if err != nil {
			logger.Get().Error().Err(err).Msg("generate decoy hash")
			return
		}
		u.decoy = h
	})
	if u.decoy != nil {
		_ = u.compare(u.decoy, []byte(password))
	}
	return domain.ErrInvalidCredentials
}

// Refresh exchanges a refresh token for a new pair; the user must still be active.
func (u *Usecase) Refresh(ctx context.Context, raw string) (*AuthResult, error) {
	claims, err := u.tokens.ParseRefresh(raw)
	if err != nil {
		return nil, err
	}
	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, token.ErrInvalid
		}
		return nil, err
	}
	if !usr.IsActive() {
		return nil, domain.ErrInactive
	}
	pair, err := u.tokens.Issue(usr.ID, usr.Email, string(usr.Role))
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &AuthResult{User: toDTO(usr), Tokens: pair}, nil
}

// ActiveIdentity resolves the stored identity of an authenticated user, rejecting inactive accounts.
func (u *Usecase) ActiveIdentity(ctx context.Context, userID string) (domain.Identity, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Identity{}, err
	}
	if !usr.IsActive() {
		return domain.Identity{}, domain.ErrInactive
	}
	return domain.Identity{UserID: usr.ID, Email: usr.Email, Role: usr.Role}, nil
}

func (u *Usecase) Profile(ctx context.Context, actor domain.Identity) (*UserDTO, error) {
	usr, err := u.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(usr)
	return &dto, nil
}

func (u *Usecase) UpdateProfile(ctx context.Context, actor domain.Identity, in UpdateProfileInput) (*UserDTO, error) {
	var out *UserDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			usr.Name = strings.TrimSpace(*in.Name)
			if err := r.Users.Save(ctx, usr); err != nil {
				return err
			}
		}
		if in.NewPassword != nil {
			cred, err := r.Users.GetCredential(ctx, usr.ID, domain.ProviderLocal)
			if err != nil {
				return err
			}
			if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(in.CurrentPassword)) != nil {
				return domain.ErrInvalidCredentials
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.NewPassword), u.cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			cred.PasswordHash = string(hash)
			if err := r.Users.SaveCredential(ctx, cred); err != nil {
				return err
			}
		}
		dto := toDTO(usr)
		out = &dto
		return nil
	})
	return out, err
}

func (u *Usecase) List(ctx context.Context, q ListQuery) (*page.Result[UserDTO], error) {
	pq := page.Query{Page: q.Page, Limit: q.Limit, Search: q.Search}.Normalize()
	items, total, err := u.users.List(ctx, domain.ListFilter{
		Search: pq.Search,
		Role:   domain.Role(q.Role),
		Status: domain.Status(q.Status),
		Offset: pq.Offset(),
		Limit:  pq.Limit,
	})
	if err != nil {
		return nil, err
	}
	return page.New(page.Map(items, func(x domain.User) UserDTO { return toDTO(&x) }), total, pq), nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*UserDTO, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(usr)
	return &dto, nil
}

// AdminUpdate lets an admin rename, re-role or (de)activate another account.
func (u *Usecase) AdminUpdate(ctx context.Context, actor domain.Identity, userID string, in AdminUpdateInput) (*UserDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		usr.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		r := domain.Role(*in.Role)
		if !domain.ValidRole(r) {
			return nil, domain.ErrInvalidRole
		}
		if usr.ID == actor.UserID && r != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		usr.Role = r
	}
	if in.Status != nil {
		s := domain.Status(*in.Status)
		if !domain.ValidStatus(s) {
			return nil, domain.ErrInvalidStatus
		}
		if usr.ID == actor.UserID && s != domain.StatusActive {
			return nil, domain.ErrForbidden
		}
		usr.Status = s
	}
	if err := u.users.Save(ctx, usr); err != nil {
		return nil, err
	}
	dto := toDTO(usr)
	return &dto, nil
}

// Deactivate soft-deletes an account; admins cannot deactivate themselves.
func (u *Usecase) Deactivate(ctx context.Context, actor domain.Identity, userID string) error {
	status := string(domain.StatusInactive)
	_, err := u.AdminUpdate(ctx, actor, userID, AdminUpdateInput{Status: &status})
	return err
}

func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	s, err := u.users.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsDTO{Total: s.Total, Active: s.Active, Inactive: s.Inactive, Admins: s.Admins}, nil
}
