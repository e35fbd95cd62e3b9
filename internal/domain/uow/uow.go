package uow

import (
	"context"

	"opticash-backend/internal/domain/category"
	"opticash-backend/internal/domain/ledger"
	"opticash-backend/internal/domain/loan"
	"opticash-backend/internal/domain/payment"
	"opticash-backend/internal/domain/user"
)

// Repos are bound to one transaction when handed out by a UnitOfWork.
type Repos struct {
	Users      user.Repository
	Categories category.Repository
	Loans      loan.Repository
	Payments   payment.Repository
	Ledger     ledger.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
