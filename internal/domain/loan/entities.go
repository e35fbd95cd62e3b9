package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusPaid || s == StatusOverdue
}

type Frequency string

const (
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyWeekly   Frequency = "weekly"
)

func (f Frequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyBiweekly || f == FrequencyWeekly
}

type Type string

const (
	TypePersonal Type = "personal"
	TypeMortgage Type = "mortgage"
	TypeAuto     Type = "auto"
)

func (t Type) Valid() bool { return t == TypePersonal || t == TypeMortgage || t == TypeAuto }

type InstallmentStatus string

const (
	InstallmentActive InstallmentStatus = "active"
	InstallmentPaid   InstallmentStatus = "paid"
)

var (
	ErrNotFound        = errors.New("loan not found")
	ErrInvalidStatus   = errors.New("invalid loan status")
	ErrInvalidSchedule = errors.New("invalid loan schedule")
)

// Loan becomes paid only when none of its installments remain active.
type Loan struct {
	ID          string          `gorm:"column:id;type:char(32);primaryKey"`
	UserID      string          `gorm:"column:user_id;type:char(32);not null;index:idx_loans_user_status"`
	Principal   decimal.Decimal `gorm:"column:principal;type:decimal(18,2);not null"`
	TermPeriods int             `gorm:"column:term_periods;not null"`
	Frequency   Frequency       `gorm:"column:frequency;size:16;not null"`
	LoanType    Type            `gorm:"column:loan_type;size:16;not null"`
	Status      Status          `gorm:"column:status;size:16;not null;default:active;index:idx_loans_user_status"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	OwnerName    string        `gorm:"->;-:migration;column:owner_name"`
	Installments []Installment `gorm:"-"`
}

func (Loan) TableName() string { return "loans" }

// Installment.Outstanding is zero exactly when Status is paid.
type Installment struct {
	ID          string            `gorm:"column:id;type:char(32);primaryKey"`
	LoanID      string            `gorm:"column:loan_id;type:char(32);not null;index:idx_installments_loan_status"`
	Seq         int               `gorm:"column:seq;not null"`
	DueDate     time.Time         `gorm:"column:due_date;not null;index"`
	Amount      decimal.Decimal   `gorm:"column:amount;type:decimal(18,2);not null"`
	Outstanding decimal.Decimal   `gorm:"column:outstanding;type:decimal(18,2);not null"`
	Status      InstallmentStatus `gorm:"column:status;size:16;not null;default:active;index:idx_installments_loan_status"`
	PaidAt      *time.Time        `gorm:"column:paid_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Installment) TableName() string { return "installments" }

// DueDate returns the due date of the zero-based period i counted from start.
func DueDate(start time.Time, f Frequency, i int) time.Time {
	switch f {
	case FrequencyBiweekly:
		return start.AddDate(0, 0, 15*(i+1))
	case FrequencyWeekly:
		return start.AddDate(0, 0, 7*(i+1))
	default:
		return start.AddDate(0, i+1, 0)
	}
}

// BuildSchedule splits principal into term installments rounded to cents. All but the
// last are equal; the last absorbs the rounding residue so the amounts sum to principal.
func BuildSchedule(loanID string, principal decimal.Decimal, term int, f Frequency, start time.Time, newID func() string) ([]Installment, error) {
	if term <= 0 || !principal.IsPositive() || !f.Valid() {
		return nil, ErrInvalidSchedule
	}
	n := decimal.NewFromInt(int64(term))
	each := principal.Div(n).Round(2)
	last := principal.Sub(each.Mul(decimal.NewFromInt(int64(term - 1))))
	if !each.IsPositive() || !last.IsPositive() {
		return nil, ErrInvalidSchedule
	}

	out := make([]Installment, 0, term)
	for i := 0; i < term; i++ {
		amount := each
		if i == term-1 {
			amount = last
		}
		out = append(out, Installment{
			ID:          newID(),
			LoanID:      loanID,
			Seq:         i + 1,
			DueDate:     DueDate(start, f, i),
			Amount:      amount,
			Outstanding: amount,
			Status:      InstallmentActive,
		})
	}
	return out, nil
}
