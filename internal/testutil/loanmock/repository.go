package loanmock

import (
	"context"
	"errors"
	"time"

	domain "opticash-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error; reads default to errUnimplemented.
type Repo struct {
	CreateFn                  func(ctx context.Context, l *domain.Loan) error
	CreateInstallmentsFn      func(ctx context.Context, items []domain.Installment) error
	GetByIDFn                 func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdateFn        func(ctx context.Context, id string) (*domain.Loan, error)
	ListFn                    func(ctx context.Context, f domain.ListFilter) ([]domain.Loan, int64, error)
	UpdateStatusFn            func(ctx context.Context, id string, s domain.Status) error
	SummaryFn                 func(ctx context.Context, userID string) (*domain.Summary, error)
	StatsFn                   func(ctx context.Context) (*domain.Stats, error)
	ListInstallmentsFn        func(ctx context.Context, loanID string) ([]domain.Installment, error)
	FindActiveInstallmentsFn  func(ctx context.Context, userID string, ids []string) ([]domain.Installment, error)
	ListPendingInstallmentsFn func(ctx context.Context, userID string) ([]domain.Installment, error)
	PayOffInstallmentFn       func(ctx context.Context, id string, at time.Time) (int64, error)
	CountActiveInstallmentsFn func(ctx context.Context, loanID string) (int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) CreateInstallments(ctx context.Context, items []domain.Installment) error {
	if m.CreateInstallmentsFn != nil {
		return m.CreateInstallmentsFn(ctx, items)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Loan, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, errUnimplemented
}

func (m *Repo) UpdateStatus(ctx context.Context, id string, s domain.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, s)
	}
	return nil
}

func (m *Repo) Summary(ctx context.Context, userID string) (*domain.Summary, error) {
	if m.SummaryFn != nil {
		return m.SummaryFn(ctx, userID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListInstallments(ctx context.Context, loanID string) ([]domain.Installment, error) {
	if m.ListInstallmentsFn != nil {
		return m.ListInstallmentsFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) FindActiveInstallments(ctx context.Context, userID string, ids []string) ([]domain.Installment, error) {
	if m.FindActiveInstallmentsFn != nil {
		return m.FindActiveInstallmentsFn(ctx, userID, ids)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListPendingInstallments(ctx context.Context, userID string) ([]domain.Installment, error) {
	if m.ListPendingInstallmentsFn != nil {
		return m.ListPendingInstallmentsFn(ctx, userID)
	}
	return nil, errUnimplemented
}

func (m *Repo) PayOffInstallment(ctx context.Context, id string, at time.Time) (int64, error) {
	if m.PayOffInstallmentFn != nil {
		return m.PayOffInstallmentFn(ctx, id, at)
	}
	return 1, nil
}

func (m *Repo) CountActiveInstallments(ctx context.Context, loanID string) (int64, error) {
	if m.CountActiveInstallmentsFn != nil {
		return m.CountActiveInstallmentsFn(ctx, loanID)
	}
	return 0, errUnimplemented
}
