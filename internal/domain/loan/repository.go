package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ListFilter struct {
	// UserID empty means every owner.
	UserID string
	// Search matches loan type or owner name, case-insensitive.
	Search string
	Offset int
	Limit  int
}

type Summary struct {
	Total           int64
	ByStatus        map[Status]int64
	ActivePrincipal decimal.Decimal
}

type Stats struct {
	Summary
	TotalPrincipal decimal.Decimal
	ByType         map[Type]int64
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	CreateInstallments(ctx context.Context, items []Installment) error
	GetByID(ctx context.Context, id string) (*Loan, error)
	// GetByIDForUpdate locks the loan row where the dialect supports it.
	GetByIDForUpdate(ctx context.Context, id string) (*Loan, error)
	List(ctx context.Context, f ListFilter) ([]Loan, int64, error)
	UpdateStatus(ctx context.Context, id string, s Status) error
	Summary(ctx context.Context, userID string) (*Summary, error)
	Stats(ctx context.Context) (*Stats, error)

	ListInstallments(ctx context.Context, loanID string) ([]Installment, error)
	// FindActiveInstallments returns only rows that are active and belong to loans owned by userID.
	FindActiveInstallments(ctx context.Context, userID string, ids []string) ([]Installment, error)
	ListPendingInstallments(ctx context.Context, userID string) ([]Installment, error)
	// PayOffInstallment zeroes the balance of an installment still active; it returns the affected row count.
	PayOffInstallment(ctx context.Context, id string, at time.Time) (int64, error)
	CountActiveInstallments(ctx context.Context, loanID string) (int64, error)
}
