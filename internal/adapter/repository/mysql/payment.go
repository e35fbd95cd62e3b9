package mysql

import (
	"context"
	"time"

	paymentDomain "opticash-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return mapDuplicate(r.db.WithContext(ctx).Create(p).Error, paymentDomain.ErrDuplicateKey)
}

func (r *PaymentRepository) CreateItems(ctx context.Context, items []paymentDomain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *PaymentRepository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("payments").
		Select("payments.*, users.name AS owner_name").
		Joins("LEFT JOIN users ON users.id = payments.user_id")
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	if err := r.withOwner(ctx).Where("payments.id = ?", id).Take(&out).Error; err != nil {
		return nil, mapNotFound(err, paymentDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ? AND client_key = ?", userID, key, true).
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, paymentDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PaymentRepository) ListItems(ctx context.Context, paymentID string) ([]paymentDomain.LineItem, error) {
	var out []paymentDomain.LineItem
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) List(ctx context.Context, f paymentDomain.ListFilter) ([]paymentDomain.Payment, int64, error) {
	q := r.withOwner(ctx)
	if f.UserID != "" {
		q = q.Where("payments.user_id = ?", f.UserID)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(payments.reference) LIKE ? OR LOWER(users.name) LIKE ?)", p, p)
	}
	if f.From != nil {
		q = q.Where("payments.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("payments.created_at < ?", *f.To)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []paymentDomain.Payment
	err := paginate(q.Order("payments.created_at DESC, payments.id DESC"), f.Offset, f.Limit).Find(&out).Error
	return out, total, err
}

func (r *PaymentRepository) Totals(ctx context.Context, userID string, from, to *time.Time) (*paymentDomain.Totals, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if userID != "" {
			q = q.Where("payments.user_id = ?", userID)
		}
		if from != nil {
			q = q.Where("payments.created_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("payments.created_at < ?", *to)
		}
		return q
	}

	var agg struct {
		N      int64
		Amount decimal.Decimal
	}
	err := scope(r.db.WithContext(ctx).Table("payments")).
		Select("COUNT(*) AS n, COALESCE(SUM(payments.total_amount), 0) AS amount").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	var items int64
	err = scope(r.db.WithContext(ctx).Table("payment_items").
		Joins("JOIN payments ON payments.id = payment_items.payment_id")).
		Count(&items).Error
	if err != nil {
		return nil, err
	}
	return &paymentDomain.Totals{Count: agg.N, Amount: agg.Amount, InstallmentsPaid: items}, nil
}

func (r *PaymentRepository) CountByStatus(ctx context.Context) (map[paymentDomain.Status]int64, error) {
	var rows []struct {
		Status paymentDomain.Status
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&paymentDomain.Payment{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[paymentDomain.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
