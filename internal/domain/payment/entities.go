package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const StatusProcessed Status = "processed"

// Tolerance is the largest absolute gap accepted between the submitted total and the selected balances.
var Tolerance = decimal.RequireFromString("0.01")

var (
	ErrNotFound            = errors.New("payment not found")
	ErrInvalidInstallments = errors.New("one or more installments are invalid or already paid")
	ErrAmountMismatch      = errors.New("payment amount does not match installments outstanding balance")
	ErrInstallmentConflict = errors.New("installment was paid by a concurrent request")
	ErrDuplicateKey        = errors.New("idempotency key already used")
)

// Payment totals never change after creation; its line items add up to TotalAmount.
type Payment struct {
	ID             string          `gorm:"column:id;type:char(32);primaryKey"`
	UserID         string          `gorm:"column:user_id;type:char(32);not null;index:idx_payments_user_created;uniqueIndex:ux_payments_user_idem"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null"`
	Reference      string          `gorm:"column:reference;size:64"`
	Status         Status          `gorm:"column:status;size:16;not null;default:processed"`
	IdempotencyKey string          `gorm:"column:idempotency_key;size:128;not null;uniqueIndex:ux_payments_user_idem"`
	// ClientKey marks keys supplied by the caller; only those are looked up for replay.
	ClientKey bool      `gorm:"column:client_key;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_payments_user_created"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	OwnerName string     `gorm:"->;-:migration;column:owner_name"`
	Items     []LineItem `gorm:"-"`
}

func (Payment) TableName() string { return "payments" }

type LineItem struct {
	ID            string          `gorm:"column:id;type:char(32);primaryKey"`
	PaymentID     string          `gorm:"column:payment_id;type:char(32);not null;uniqueIndex:ux_payment_items_payment_installment"`
	InstallmentID string          `gorm:"column:installment_id;type:char(32);not null;uniqueIndex:ux_payment_items_payment_installment;index"`
	AppliedAmount decimal.Decimal `gorm:"column:applied_amount;type:decimal(18,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (LineItem) TableName() string { return "payment_items" }

// AmountsMatch reports whether total is within Tolerance of expected.
func AmountsMatch(total, expected decimal.Decimal) bool {
	return total.Sub(expected).Abs().LessThanOrEqual(Tolerance)
}
