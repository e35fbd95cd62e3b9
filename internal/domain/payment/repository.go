package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ListFilter struct {
	UserID string
	// Search matches reference or owner name, case-insensitive.
	Search string
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

type Totals struct {
	Count            int64
	Amount           decimal.Decimal
	InstallmentsPaid int64
}

type Stats struct {
	Total     Totals
	Today     Totals
	ThisMonth Totals
	ByStatus  map[Status]int64
}

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	CreateItems(ctx context.Context, items []LineItem) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*Payment, error)
	ListItems(ctx context.Context, paymentID string) ([]LineItem, error)
	List(ctx context.Context, f ListFilter) ([]Payment, int64, error)
	// Totals aggregates payments of userID (all users when empty) created in [from, to).
	Totals(ctx context.Context, userID string, from, to *time.Time) (*Totals, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
