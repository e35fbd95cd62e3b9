// Package ledger models dated income and expense records. Both kinds share one shape and live in
// separate tables selected by Kind.
package ledger

import (
	"errors"
	"time"

	"opticash-backend/internal/domain/category"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Table() string {
	if k == KindIncome {
		return "incomes"
	}
	return "expenses"
}

// CategoryType is the category type a record of this kind must reference.
func (k Kind) CategoryType() category.Type {
	if k == KindIncome {
		return category.TypeIncome
	}
	return category.TypeExpense
}

type Status string

const (
	StatusActive   Status = "active"
	StatusModified Status = "modified"
	StatusDeleted  Status = "deleted"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidCategory = errors.New("category is missing, inactive or of the wrong type")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
)

type Record struct {
	ID          string          `gorm:"column:id;type:char(32);primaryKey"`
	UserID      string          `gorm:"column:user_id;type:char(32);not null;index"`
	CategoryID  string          `gorm:"column:category_id;type:char(32);not null;index"`
	Description string          `gorm:"column:description;size:255;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	Date        time.Time       `gorm:"column:date;not null;index"`
	Status      Status          `gorm:"column:status;size:16;not null;default:active;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Kind Kind `gorm:"-"`
}

// Income and Expense exist so migrations create one table per kind.
type Income struct{ Record }

func (Income) TableName() string { return "incomes" }

type Expense struct{ Record }

func (Expense) TableName() string { return "expenses" }

// Visible reports whether the record is part of the queryable set.
func (r *Record) Visible() bool { return r.Status != StatusDeleted }

type Filter struct {
	UserID     string
	Search     string
	CategoryID string
	// From is inclusive, Before exclusive.
	From   *time.Time
	Before *time.Time
	Offset int
	Limit  int
}

type CategoryTotal struct {
	CategoryID string
	Name       string
	Total      decimal.Decimal
	Count      int64
}

type MonthTotal struct {
	Month time.Time
	Total decimal.Decimal
	Count int64
}

// MonthStart floors t to the first instant of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// BucketByMonth sums records into the trailing n calendar months ending with the month of now.
// Months without records are present with zero totals, oldest first.
func BucketByMonth(records []Record, now time.Time, n int) []MonthTotal {
	if n <= 0 {
		return nil
	}
	first := MonthStart(now).AddDate(0, -(n - 1), 0)
	out := make([]MonthTotal, n)
	index := make(map[time.Time]int, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i, 0)
		out[i] = MonthTotal{Month: m, Total: decimal.Zero}
		index[m] = i
	}
	for _, r := range records {
		i, ok := index[MonthStart(r.Date)]
		if !ok {
			continue
		}
		out[i].Total = out[i].Total.Add(r.Amount)
		out[i].Count++
	}
	return out
}
