package mysql

import (
	"context"
	"time"

	"opticash-backend/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository serves both incomes and expenses; the Kind picks the table.
type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) visible(ctx context.Context, k ledger.Kind, userID string) *gorm.DB {
	return r.db.WithContext(ctx).Table(k.Table()).
		Where("user_id = ? AND status <> ?", userID, ledger.StatusDeleted)
}

func (r *LedgerRepository) Create(ctx context.Context, k ledger.Kind, rec *ledger.Record) error {
	return r.db.WithContext(ctx).Table(k.Table()).Create(rec).Error
}

func (r *LedgerRepository) GetByID(ctx context.Context, k ledger.Kind, userID, id string) (*ledger.Record, error) {
	var out ledger.Record
	if err := r.visible(ctx, k, userID).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, mapNotFound(err, ledger.ErrNotFound)
	}
	out.Kind = k
	return &out, nil
}

func (r *LedgerRepository) List(ctx context.Context, k ledger.Kind, f ledger.Filter) ([]ledger.Record, int64, error) {
	q := r.visible(ctx, k, f.UserID)
	if f.Search != "" {
		q = q.Where("LOWER(description) LIKE ?", likePattern(f.Search))
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.Before != nil {
		q = q.Where("date < ?", *f.Before)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []ledger.Record
	if err := paginate(q.Order("date DESC, id DESC"), f.Offset, f.Limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Kind = k
	}
	return out, total, nil
}

func (r *LedgerRepository) Save(ctx context.Context, k ledger.Kind, rec *ledger.Record) error {
	return r.db.WithContext(ctx).Table(k.Table()).Save(rec).Error
}

func (r *LedgerRepository) Totals(ctx context.Context, k ledger.Kind, userID string) (decimal.Decimal, int64, error) {
	var agg struct {
		Total decimal.Decimal
		N     int64
	}
	err := r.visible(ctx, k, userID).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS n").
		Scan(&agg).Error
	return agg.Total, agg.N, err
}

func (r *LedgerRepository) TotalsByCategory(ctx context.Context, k ledger.Kind, userID string) ([]ledger.CategoryTotal, error) {
	var rows []ledger.CategoryTotal
	err := r.visible(ctx, k, userID).
		Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("category_id").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *LedgerRepository) ListSince(ctx context.Context, k ledger.Kind, userID string, since time.Time) ([]ledger.Record, error) {
	var out []ledger.Record
	err := r.visible(ctx, k, userID).
		Where("date >= ?", since).
		Order("date ASC").
		Find(&out).Error
	return out, err
}
