package paymentmock

import (
	"context"
	"errors"
	"time"

	domain "opticash-backend/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("paymentmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn              func(ctx context.Context, p *domain.Payment) error
	CreateItemsFn         func(ctx context.Context, items []domain.LineItem) error
	GetByIDFn             func(ctx context.Context, id string) (*domain.Payment, error)
	GetByIdempotencyKeyFn func(ctx context.Context, userID, key string) (*domain.Payment, error)
	ListItemsFn           func(ctx context.Context, paymentID string) ([]domain.LineItem, error)
	ListFn                func(ctx context.Context, f domain.ListFilter) ([]domain.Payment, int64, error)
	TotalsFn              func(ctx context.Context, userID string, from, to *time.Time) (*domain.Totals, error)
	CountByStatusFn       func(ctx context.Context) (map[domain.Status]int64, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) CreateItems(ctx context.Context, items []domain.LineItem) error {
	if m.CreateItemsFn != nil {
		return m.CreateItemsFn(ctx, items)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

// GetByIdempotencyKey defaults to not found so replay checks fall through.
func (m *Repo) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Payment, error) {
	if m.GetByIdempotencyKeyFn != nil {
		return m.GetByIdempotencyKeyFn(ctx, userID, key)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListItems(ctx context.Context, paymentID string) ([]domain.LineItem, error) {
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, paymentID)
	}
	return nil, errUnimplemented
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Payment, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, errUnimplemented
}

func (m *Repo) Totals(ctx context.Context, userID string, from, to *time.Time) (*domain.Totals, error) {
	if m.TotalsFn != nil {
		return m.TotalsFn(ctx, userID, from, to)
	}
	return nil, errUnimplemented
}

func (m *Repo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, errUnimplemented
}
