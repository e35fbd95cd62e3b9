package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository works over the table of one Kind; every query excludes deleted rows.
type Repository interface {
	Create(ctx context.Context, k Kind, r *Record) error
	GetByID(ctx context.Context, k Kind, userID, id string) (*Record, error)
	List(ctx context.Context, k Kind, f Filter) ([]Record, int64, error)
	Save(ctx context.Context, k Kind, r *Record) error
	Totals(ctx context.Context, k Kind, userID string) (decimal.Decimal, int64, error)
	TotalsByCategory(ctx context.Context, k Kind, userID string) ([]CategoryTotal, error)
	ListSince(ctx context.Context, k Kind, userID string, since time.Time) ([]Record, error)
}
